package wordcloud

// Source is a stream of pseudo-random floats in [0, 1).
type Source interface {
	Float64() float64
}

// SourceFunc builds a Source from a 32-bit seed. Swapping it changes every
// random decision of the pipeline while keeping output reproducible.
type SourceFunc func(seed uint32) Source

// Mulberry32 is a small 32-bit generator with good enough statistical
// quality for layout jitter. Same seed, same stream, on every platform.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 returns a Mulberry32 positioned at seed.
func NewMulberry32(seed uint32) Source {
	return &Mulberry32{state: seed}
}

// Float64 implements Source.
func (m *Mulberry32) Float64() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296.0
}

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// HashString is FNV-1a over the first limit runes of s (all of s when
// limit <= 0). It derives seeds from corpus text, so identical text always
// produces the identical cloud.
func HashString(s string, limit int) uint32 {
	h := uint32(fnvOffset32)
	n := 0
	for _, r := range s {
		if limit > 0 && n == limit {
			break
		}
		h ^= uint32(r)
		h *= fnvPrime32
		n++
	}
	return h
}

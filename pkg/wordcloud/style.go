package wordcloud

import (
	"fmt"
	"math"
	"strconv"
)

// Placement is one word of the cloud with its final position and style.
type Placement struct {
	ID       string  `json:"id"`
	Word     string  `json:"word"`
	Count    int     `json:"count"`
	FontSize int     `json:"fontSize"` // px
	LeftPct  int     `json:"leftPct"`
	DocY     int     `json:"docY"`     // px from the top of the document
	Rotate   int     `json:"rotate"`   // degrees
	Duration int     `json:"duration"` // float animation period, seconds
	Delay    int     `json:"delay"`    // seconds
	Opacity  float64 `json:"opacity"`
}

// StyleOptions bounds the size and opacity ranges words are mapped into.
type StyleOptions struct {
	MinFont    float64
	MaxFont    float64
	MinOpacity float64
	MaxOpacity float64
}

// Scale maps v from [inMin, inMax] linearly onto [outMin, outMax]. A
// degenerate input range maps to the middle of the output range.
func Scale(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return (outMin + outMax) / 2
	}
	t := (v - inMin) / (inMax - inMin)
	return outMin + t*(outMax-outMin)
}

// Style pairs sampled words with points by index and derives the visual
// attributes. Rotation and float timings come from a generator seeded by
// "word:index", so a word in a given slot animates the same way on every
// render.
func Style(sampled []WordFrequency, points []Point, opts StyleOptions, newSource SourceFunc) []Placement {
	if len(sampled) == 0 {
		return nil
	}
	if newSource == nil {
		newSource = NewMulberry32
	}

	minC, maxC := sampled[0].Count, sampled[0].Count
	for _, wf := range sampled[1:] {
		minC = min(minC, wf.Count)
		maxC = max(maxC, wf.Count)
	}
	lo, hi := float64(minC), float64(maxC)

	out := make([]Placement, len(sampled))
	for i, wf := range sampled {
		left, docY := 50, 0
		if i < len(points) {
			left, docY = points[i].LeftPercent(), points[i].DocY()
		}
		key := wf.Word + ":" + strconv.Itoa(i)
		r := newSource(HashString(key, 0))
		c := float64(wf.Count)
		out[i] = Placement{
			ID:       fmt.Sprintf("%s-%d", wf.Word, i),
			Word:     wf.Word,
			Count:    wf.Count,
			FontSize: int(math.Round(Scale(c, lo, hi, opts.MinFont, opts.MaxFont))),
			LeftPct:  left,
			DocY:     docY,
			Rotate:   int(math.Round((r.Float64() - 0.5) * 10)),
			Duration: int(math.Round(22 + r.Float64()*18)),
			Delay:    int(math.Round(r.Float64() * 16)),
			Opacity:  Scale(c, lo, hi, opts.MinOpacity, opts.MaxOpacity),
		}
	}
	return out
}

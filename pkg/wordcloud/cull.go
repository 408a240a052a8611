package wordcloud

// DefaultCullBuffer is how far beyond the viewport words stay painted, px.
const DefaultCullBuffer = 200

// Band is the vertical document range in which words are painted.
type Band struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// CullBand returns the paint band for a viewport scrolled to scrollY.
func CullBand(scrollY, viewportHeight, buffer float64) Band {
	return Band{Top: scrollY - buffer, Bottom: scrollY + viewportHeight + buffer}
}

// Visible reports whether a word at docY should be painted.
func (b Band) Visible(docY int) bool {
	y := float64(docY)
	return y >= b.Top && y <= b.Bottom
}

// Cull marks which words fall inside the band. It only decides paint; the
// placements themselves are left untouched.
func Cull(words []Placement, b Band) []bool {
	vis := make([]bool, len(words))
	for i, w := range words {
		vis[i] = b.Visible(w.DocY)
	}
	return vis
}

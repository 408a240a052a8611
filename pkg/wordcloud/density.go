package wordcloud

import "math"

// Approximate word box, in multiples of the average font size.
const (
	wordWidthEm  = 3.4
	wordHeightEm = 1.12
)

// PerViewport returns how many words fill coverage of a vw × vh viewport at
// the average font size. Never less than one.
func PerViewport(vw, vh float64, opts Options) int {
	avg := (opts.MinFont + opts.MaxFont) / 2
	area := math.Max(1, avg*wordWidthEm*avg*wordHeightEm)
	return max(1, int(math.Floor(vw*vh*opts.CoveragePerViewport/area)))
}

// TargetCount keeps density constant while scrolling: perViewport words for
// every viewport-tall slice of the document.
func TargetCount(perViewport int, documentHeight, vh float64) int {
	return max(1, perViewport*sliceCount(documentHeight, vh))
}

func sliceCount(documentHeight, vh float64) int {
	if vh <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(documentHeight/vh)))
}

// Package wordcloud builds the ambient word-cloud background of the poem
// viewer: it turns corpus text into positioned, styled, animated words and
// keeps the two display layers that cross-fade between successive clouds.
package wordcloud

import "math"

// Seeds are derived from a bounded prefix of the corpus text.
const (
	sampleSeedRunes = 4096
	placeSeedRunes  = 2048

	defaultViewportWidth = 1200
)

// Viewport carries the host geometry the pipeline depends on. Nothing is
// read from ambient state; callers pass what they observed.
type Viewport struct {
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	DocumentHeight float64 `json:"documentHeight"`
	ScrollY        float64 `json:"scrollY"`
}

// Generator runs tokenize → rank → sample → place → style as one unit.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	opts      Options
	seg       Segmenter
	newSource SourceFunc
}

// NewGenerator validates opts and returns a Generator. A nil seg selects the
// English tokenizer.
func NewGenerator(opts Options, seg Segmenter) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if seg == nil {
		seg = EnglishSegmenter{}
	}
	src := opts.NewSource
	if src == nil {
		src = NewMulberry32
	}
	return &Generator{opts: opts, seg: seg, newSource: src}, nil
}

// Options returns the options the generator was built with.
func (g *Generator) Options() Options { return g.opts }

// Segmenter returns the segmenter used by Generate.
func (g *Generator) Segmenter() Segmenter { return g.seg }

// Generate computes a complete, fresh placement list for text. Degenerate
// input (no text, no viewport, nothing left after filtering) yields nil.
func (g *Generator) Generate(text string, vp Viewport) []Placement {
	if text == "" || vp.Height <= 0 {
		return nil
	}
	return g.GenerateTokens(text, g.seg.Segment(text), vp)
}

// GenerateTokens is Generate for callers that already segmented text. The
// text is still needed because it seeds every random decision.
func (g *Generator) GenerateTokens(text string, tokens []string, vp Viewport) []Placement {
	if vp.Height <= 0 {
		return nil
	}
	ranked := Rank(tokens)
	if len(ranked) == 0 {
		return nil
	}

	width := vp.Width
	if width <= 0 {
		width = defaultViewportWidth
	}
	docH := math.Max(vp.DocumentHeight, vp.Height)

	per := PerViewport(width, vp.Height, g.opts)
	target := TargetCount(per, docH, vp.Height)

	sampled := Sample(ranked, target, g.newSource(HashString(text, sampleSeedRunes)), g.opts.RepeatWeighted)
	seed := HashString(text, placeSeedRunes) ^ uint32(len(sampled))
	points := Place(len(sampled), docH, vp.Height, g.newSource(seed), g.opts.Candidates)
	return Style(sampled, points, g.opts.styleOptions(), g.newSource)
}

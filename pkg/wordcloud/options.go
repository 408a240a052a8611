package wordcloud

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions reports a configuration that violates a precondition of
// the pipeline.
var ErrInvalidOptions = errors.New("wordcloud: invalid options")

// Options configures the cloud. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	FontFamily          string  `yaml:"font_family" json:"fontFamily"`
	MinFont             float64 `yaml:"min_font" json:"minFont"`
	MaxFont             float64 `yaml:"max_font" json:"maxFont"`
	CoveragePerViewport float64 `yaml:"coverage_per_viewport" json:"coveragePerViewport"`
	RepeatWeighted      bool    `yaml:"repeat_weighted" json:"repeatWeighted"`
	ScrollDebounceMs    int     `yaml:"scroll_debounce_ms" json:"scrollDebounceMs"`

	// Candidates is k in the best-candidate placement heuristic.
	Candidates int     `yaml:"candidates" json:"candidates"`
	MinOpacity float64 `yaml:"min_opacity" json:"minOpacity"`
	MaxOpacity float64 `yaml:"max_opacity" json:"maxOpacity"`
	// CullBuffer extends the visible band above and below the viewport, px.
	CullBuffer float64 `yaml:"cull_buffer" json:"cullBuffer"`
	// FadeMs is the cross-fade duration used by timer-driven commits.
	FadeMs int `yaml:"fade_ms" json:"fadeMs"`
	// Language selects the Segmenter: "en" or "ja".
	Language string `yaml:"language" json:"language"`

	// NewSource overrides the pseudo-random generator (Mulberry32).
	NewSource SourceFunc `yaml:"-" json:"-"`
}

// DefaultOptions returns the tuned defaults of the poem viewer background.
func DefaultOptions() Options {
	return Options{
		FontFamily:          "'Caveat', cursive",
		MinFont:             28,
		MaxFont:             84,
		CoveragePerViewport: 0.22,
		RepeatWeighted:      true,
		ScrollDebounceMs:    16,
		Candidates:          DefaultCandidates,
		MinOpacity:          0.10,
		MaxOpacity:          0.26,
		CullBuffer:          200,
		FadeMs:              1200,
		Language:            "en",
	}
}

// Validate checks the preconditions of the pipeline.
func (o Options) Validate() error {
	switch {
	case o.MinFont <= 0 || o.MaxFont < o.MinFont:
		return fmt.Errorf("%w: font range [%g, %g]", ErrInvalidOptions, o.MinFont, o.MaxFont)
	case o.CoveragePerViewport <= 0:
		return fmt.Errorf("%w: coverage_per_viewport %g", ErrInvalidOptions, o.CoveragePerViewport)
	case o.MinOpacity < 0 || o.MaxOpacity > 1 || o.MaxOpacity < o.MinOpacity:
		return fmt.Errorf("%w: opacity range [%g, %g]", ErrInvalidOptions, o.MinOpacity, o.MaxOpacity)
	case o.Candidates < 1:
		return fmt.Errorf("%w: candidates %d", ErrInvalidOptions, o.Candidates)
	case o.ScrollDebounceMs < 0 || o.FadeMs < 0 || o.CullBuffer < 0:
		return fmt.Errorf("%w: negative timing or buffer", ErrInvalidOptions)
	case o.Language != "en" && o.Language != "ja":
		return fmt.Errorf("%w: unknown language %q", ErrInvalidOptions, o.Language)
	}
	return nil
}

func (o Options) styleOptions() StyleOptions {
	return StyleOptions{
		MinFont:    o.MinFont,
		MaxFont:    o.MaxFont,
		MinOpacity: o.MinOpacity,
		MaxOpacity: o.MaxOpacity,
	}
}

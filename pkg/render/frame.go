// Package render draws cloud frames: SVG and PNG files, JSON for browser
// hosts, and a tcell terminal view.
package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

// Frame is everything needed to paint the background at one instant.
type Frame struct {
	Viewport   wordcloud.Viewport `json:"viewport"`
	In         wordcloud.Layer    `json:"incoming"`
	Out        wordcloud.Layer    `json:"outgoing"`
	State      wordcloud.State    `json:"-"`
	Band       wordcloud.Band     `json:"band"`
	FontFamily string             `json:"fontFamily"`
	FadeMs     int                `json:"fadeMs"`
}

// NewFrame snapshots a cross-fade buffer for the given viewport.
func NewFrame(cf *wordcloud.CrossFade, vp wordcloud.Viewport, opts wordcloud.Options) Frame {
	in, out := cf.Layers()
	return Frame{
		Viewport:   vp,
		In:         in,
		Out:        out,
		State:      cf.State(),
		Band:       wordcloud.CullBand(vp.ScrollY, vp.Height, opts.CullBuffer),
		FontFamily: opts.FontFamily,
		FadeMs:     opts.FadeMs,
	}
}

// DocumentHeight is the height the cloud spans, never less than one viewport.
func (f Frame) DocumentHeight() float64 {
	return max(f.Viewport.DocumentHeight, f.Viewport.Height)
}

// Theme holds the colors of rendered output.
type Theme struct {
	Background string
	Color      string
}

// DefaultTheme is a warm paper background with dark ink.
var DefaultTheme = Theme{Background: "#faf6ee", Color: "#3b2f2a"}

// ParseHexColor parses "#rgb" or "#rrggbb".
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 || !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("render: bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("render: bad color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

// CellWriter is the part of tcell.Screen the terminal view draws with.
type CellWriter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Region is a rectangle of terminal cells.
type Region struct {
	X, Y, W, H int
}

// Terminal draws frames as text into a screen region. Words are mapped from
// pixels to cells proportionally; low-opacity words and the outgoing layer
// are drawn dim.
type Terminal struct {
	Screen CellWriter
	Style  tcell.Style
}

// NewTerminal returns a Terminal drawing in muted gray.
func NewTerminal(s CellWriter) *Terminal {
	return &Terminal{Screen: s, Style: tcell.StyleDefault.Foreground(tcell.ColorGray)}
}

// Draw paints the frame into r and returns how many words were drawn. The
// outgoing layer is only painted while a transition is running.
func (t *Terminal) Draw(f Frame, r Region) int {
	if r.W <= 0 || r.H <= 0 || f.Viewport.Height <= 0 {
		return 0
	}
	n := 0
	if f.State == wordcloud.Transitioning {
		n += t.drawLayer(f, f.Out, r, t.Style.Dim(true).Italic(true))
	}
	return n + t.drawLayer(f, f.In, r, t.Style)
}

func (t *Terminal) drawLayer(f Frame, l wordcloud.Layer, r Region, base tcell.Style) int {
	mid := midOpacity(l.Words)
	n := 0
	for _, p := range l.Words {
		if !f.Band.Visible(p.DocY) {
			continue
		}
		row := r.Y + int(math.Floor((float64(p.DocY)-f.Viewport.ScrollY)/f.Viewport.Height*float64(r.H)))
		if row < r.Y || row >= r.Y+r.H {
			continue
		}
		// Centered on LeftPct, like the page.
		col := r.X + int(math.Round(float64(p.LeftPct)/100*float64(r.W-1))) - runewidth.StringWidth(p.Word)/2
		style := base
		if p.Opacity < mid {
			style = style.Dim(true)
		}
		if t.putString(col, row, r.X, r.X+r.W, p.Word, style) {
			n++
		}
	}
	return n
}

// putString writes s from col, clipped to [lo, hi). It reports whether any
// cell was written.
func (t *Terminal) putString(col, row, lo, hi int, s string, style tcell.Style) bool {
	wrote := false
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col+w > hi {
			break
		}
		if col >= lo {
			t.Screen.SetContent(col, row, ch, nil, style)
			wrote = true
		}
		col += w
	}
	return wrote
}

func midOpacity(words []wordcloud.Placement) float64 {
	if len(words) == 0 {
		return 0
	}
	lo, hi := words[0].Opacity, words[0].Opacity
	for _, p := range words[1:] {
		lo = min(lo, p.Opacity)
		hi = max(hi, p.Opacity)
	}
	return (lo + hi) / 2
}

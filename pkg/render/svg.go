package render

import (
	"fmt"
	"html"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

// floatRise is how far words drift during one float period, px.
const floatRise = 18

const svgCSS = `svg, .wc-layer, .wc-word { pointer-events: none; }
.wc-word { font-family: %s; fill: %s; }
.wc-culled { visibility: hidden; }
.fade-in { animation: wc-fade-in %dms ease forwards; }
.fade-out { animation: wc-fade-out %dms ease forwards; }
.wc-float { animation-name: wc-float; animation-timing-function: ease-in-out; animation-iteration-count: infinite; animation-direction: alternate; }
@keyframes wc-float { from { transform: translate(0, 0); } to { transform: translate(0, -%dpx); } }
@keyframes wc-fade-in { from { opacity: 0; } to { opacity: 1; } }
@keyframes wc-fade-out { from { opacity: 1; } to { opacity: 0; } }
@media (prefers-reduced-motion: reduce) { .wc-float, .fade-in, .fade-out { animation-duration: 0s; } }
`

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// SVG writes the whole document-height cloud as an animated SVG. During a
// transition both layers are emitted with their fade animations; culled
// words stay in the markup, hidden.
func SVG(w io.Writer, f Frame, theme Theme) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	width := int(math.Round(f.Viewport.Width))
	height := int(math.Round(f.DocumentHeight()))
	canvas.Start(width, height)
	canvas.Title("poem cloud")
	canvas.Style("text/css", fmt.Sprintf(svgCSS, f.FontFamily, theme.Color, f.FadeMs, f.FadeMs, floatRise))
	canvas.Rect(0, 0, width, height, "fill:"+theme.Background)

	if f.State == wordcloud.Transitioning {
		for _, l := range []wordcloud.Layer{f.Out, f.In} {
			svgLayer(canvas, l, fmt.Sprintf(`class="wc-layer %s"`, l.Role), width, f.Band)
		}
	} else {
		// A stable outgoing layer repeats the incoming words and is left out.
		svgLayer(canvas, f.In, `class="wc-layer"`, width, f.Band)
	}
	canvas.End()
	return ew.err
}

func svgLayer(canvas *svg.SVG, l wordcloud.Layer, class string, width int, band wordcloud.Band) {
	canvas.Group(class, fmt.Sprintf(`data-layer="%s"`, l.Name))
	for _, p := range l.Words {
		svgWord(canvas, p, width, band.Visible(p.DocY))
	}
	canvas.Gend()
}

// svgWord centers the word horizontally on its LeftPct and rotates it about
// that center.
func svgWord(canvas *svg.SVG, p wordcloud.Placement, width int, visible bool) {
	x := p.LeftPct * width / 100
	y := p.DocY + p.FontSize
	cy := p.DocY + p.FontSize/2

	canvas.Group(
		`class="wc-float"`,
		fmt.Sprintf(`style="animation-duration:%ds;animation-delay:-%ds"`, p.Duration, p.Delay),
	)
	class := "wc-word"
	if !visible {
		class += " wc-culled"
	}
	canvas.Text(x, y, p.Word,
		fmt.Sprintf(`id="%s"`, html.EscapeString(p.ID)),
		fmt.Sprintf(`class="%s"`, class),
		`text-anchor="middle"`,
		fmt.Sprintf(`style="--docY:%dpx;font-size:%dpx"`, p.DocY, p.FontSize),
		fmt.Sprintf(`fill-opacity="%.3f"`, p.Opacity),
		fmt.Sprintf(`transform="rotate(%d %d %d)"`, p.Rotate, x, cy),
	)
	canvas.Gend()
}

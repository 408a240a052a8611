package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

var loadFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// Rasterizer draws the incoming layer of frames into images. It caches one
// face per font size and is not safe for concurrent use.
type Rasterizer struct {
	font  *truetype.Font
	faces map[int]font.Face
}

// NewRasterizer loads the bundled Go font.
func NewRasterizer() (*Rasterizer, error) {
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Rasterizer{font: f, faces: make(map[int]font.Face)}, nil
}

func (r *Rasterizer) face(size int) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}

// Rasterize paints the visible part of the viewport: background, then every
// in-band word of the incoming layer at its own opacity and rotation.
func (r *Rasterizer) Rasterize(f Frame, theme Theme) (*image.RGBA, error) {
	bg, err := ParseHexColor(theme.Background)
	if err != nil {
		return nil, err
	}
	ink, err := ParseHexColor(theme.Color)
	if err != nil {
		return nil, err
	}

	w := max(1, int(math.Round(f.Viewport.Width)))
	h := max(1, int(math.Round(f.Viewport.Height)))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for _, p := range f.In.Words {
		if !f.Band.Visible(p.DocY) {
			continue
		}
		r.drawWord(img, p, f.Viewport.ScrollY, ink)
	}
	return img, nil
}

func (r *Rasterizer) drawWord(dst *image.RGBA, p wordcloud.Placement, scrollY float64, ink color.RGBA) {
	face := r.face(max(1, p.FontSize))
	m := face.Metrics()
	d := &font.Drawer{Face: face}
	ww := d.MeasureString(p.Word).Ceil()
	wh := (m.Ascent + m.Descent).Ceil()
	if ww <= 0 || wh <= 0 {
		return
	}

	mask := image.NewAlpha(image.Rect(0, 0, ww, wh))
	d.Dst = mask
	d.Src = image.Opaque
	d.Dot = freetype.Pt(0, m.Ascent.Ceil())
	d.DrawString(p.Word)

	// Rotate the word mask about its center onto its place in the viewport.
	// The word is centered on its LeftPct.
	x := float64(p.LeftPct)*float64(dst.Bounds().Dx())/100 - float64(ww)/2
	y := float64(p.DocY) - scrollY
	sx, sy := float64(ww)/2, float64(wh)/2
	dx, dy := x+sx, y+sy
	theta := float64(p.Rotate) * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	s2d := f64.Aff3{
		cos, -sin, dx - (cos*sx - sin*sy),
		sin, cos, dy - (sin*sx + cos*sy),
	}

	radius := int(math.Ceil(math.Hypot(sx, sy)))
	cx, cy := int(dx), int(dy)
	rect := image.Rect(cx-radius, cy-radius, cx+radius+1, cy+radius+1)
	if !rect.Overlaps(dst.Bounds()) {
		return
	}
	rotated := image.NewAlpha(rect)
	xdraw.BiLinear.Transform(rotated, s2d, mask, mask.Bounds(), xdraw.Over, nil)

	src := image.NewUniform(color.NRGBA{R: ink.R, G: ink.G, B: ink.B, A: uint8(math.Round(p.Opacity * 255))})
	draw.DrawMask(dst, rect, src, image.Point{}, rotated, rect.Min, draw.Over)
}

// PNG rasterizes the frame's viewport and encodes it.
func PNG(w io.Writer, f Frame, theme Theme) error {
	r, err := NewRasterizer()
	if err != nil {
		return err
	}
	img, err := r.Rasterize(f, theme)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

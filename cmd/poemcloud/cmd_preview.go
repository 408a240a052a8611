package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/japaniel/poemcloud/pkg/config"
	"github.com/japaniel/poemcloud/pkg/corpus"
	"github.com/japaniel/poemcloud/pkg/render"
	"github.com/japaniel/poemcloud/pkg/watch"
	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

// One terminal cell stands for this many pixels of the page.
const (
	cellW = 8
	cellH = 16
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Read a collection in the terminal over its live cloud",
	Long: `Shows the poems as scrolling cards. The cards on screen drive the cloud
behind them: after every settled scroll or resize the cloud is rebuilt from
the visible text and cross-faded in.

Keys: j/k or arrows scroll, space/PgDn and b/PgUp page, g/G jump, q quits.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&inPath, "in", "", "Collection file or URL")
	previewCmd.Flags().StringVar(&search, "search", "", "Only poems whose title, body or category contain this")
	previewCmd.Flags().StringVar(&category, "category", "", "Only poems of this category")
}

// cardLayout is a poem card wrapped to the screen width. top is the first
// document row of the card.
type cardLayout struct {
	poem  corpus.Poem
	top   int
	lines []string
}

// previewer is the state of the terminal reader. All methods run on the
// event loop goroutine except those noted.
type previewer struct {
	screen tcell.Screen
	term   *render.Terminal
	gen    *wordcloud.Generator
	opts   wordcloud.Options
	fade   time.Duration
	logger *zap.Logger

	poems   []corpus.Poem
	cards   []cardLayout
	docRows int
	scroll  int

	tracker *watch.ViewportTracker
	cf      *wordcloud.CrossFade
	commits chan string
	timer   *time.Timer
}

func newPreviewer(s tcell.Screen, gen *wordcloud.Generator, c *config.Config, poems []corpus.Poem, logger *zap.Logger) *previewer {
	p := &previewer{
		screen:  s,
		term:    render.NewTerminal(s),
		gen:     gen,
		opts:    c.Options,
		fade:    c.Fade(),
		logger:  logger,
		poems:   poems,
		cf:      wordcloud.NewCrossFade(),
		commits: make(chan string, 1),
	}
	p.layout()
	p.tracker = watch.NewViewportTracker(p.viewport(), c.ScrollDebounce())
	return p
}

// viewRows is the number of rows available to cards; the last row is the
// status line.
func (p *previewer) viewRows() int {
	_, h := p.screen.Size()
	return max(1, h-1)
}

func (p *previewer) layout() {
	w, _ := p.screen.Size()
	width := max(10, w-4)
	p.cards = p.cards[:0]
	row := 0
	for _, poem := range p.poems {
		title := poem.Title
		if n := poem.DisplayNumber(); n != "" {
			title = n + ". " + title
		}
		lines := []string{runewidth.Truncate(title, width, "…")}
		for _, ln := range strings.Split(poem.Body, "\n") {
			lines = append(lines, strings.Split(runewidth.Wrap(ln, width), "\n")...)
		}
		if poem.Category != "" {
			lines = append(lines, "~ "+poem.Category)
		}
		p.cards = append(p.cards, cardLayout{poem: poem, top: row, lines: lines})
		row += len(lines) + 1
	}
	p.docRows = row
	p.scroll = min(p.scroll, p.maxScroll())
}

func (p *previewer) maxScroll() int {
	return max(0, p.docRows-p.viewRows())
}

// viewport is the current screen expressed in page pixels.
func (p *previewer) viewport() wordcloud.Viewport {
	w, _ := p.screen.Size()
	vh := float64(p.viewRows() * cellH)
	return wordcloud.Viewport{
		Width:          float64(w * cellW),
		Height:         vh,
		DocumentHeight: max(float64(p.docRows*cellH), vh),
		ScrollY:        float64(p.scroll * cellH),
	}
}

// visibleText is the text of the cards meaningfully on screen at vp.
func (p *previewer) visibleText(vp wordcloud.Viewport) string {
	cards := make([]corpus.Card, 0, len(p.cards))
	for _, c := range p.cards {
		cards = append(cards, corpus.Card{
			Title:  c.poem.Title,
			Body:   c.poem.Body,
			Top:    float64(c.top*cellH) - vp.ScrollY,
			Height: float64(len(c.lines) * cellH),
		})
	}
	return corpus.Visible(cards, vp.Height)
}

// regenerate rebuilds the cloud for a settled viewport. It reports whether
// the cloud changed.
func (p *previewer) regenerate(vp wordcloud.Viewport) bool {
	placements := p.gen.Generate(p.visibleText(vp), vp)
	if !p.cf.Update(placements) {
		return false
	}
	p.logger.Debug("cloud regenerated",
		zap.Float64("scrollY", vp.ScrollY),
		zap.Int("words", len(placements)))

	if p.timer != nil {
		p.timer.Stop()
	}
	layer := p.cf.Outgoing()
	// Runs on the timer goroutine.
	p.timer = time.AfterFunc(p.fade, func() {
		select {
		case p.commits <- layer:
		default:
		}
	})
	return true
}

func (p *previewer) commit(layer string) bool {
	return p.cf.Commit(layer)
}

func (p *previewer) scrollTo(row int) {
	row = min(max(0, row), p.maxScroll())
	if row == p.scroll {
		return
	}
	p.scroll = row
	p.tracker.Scroll(float64(row * cellH))
}

func (p *previewer) resize() {
	p.screen.Sync()
	p.layout()
	vp := p.viewport()
	p.tracker.Resize(vp.Width, vp.Height)
	p.tracker.SetDocumentHeight(vp.DocumentHeight)
	p.tracker.Scroll(vp.ScrollY)
}

// handleKey applies a key press and reports whether the reader should quit.
func (p *previewer) handleKey(ev *tcell.EventKey) bool {
	page := max(1, p.viewRows()-2)
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		p.scrollTo(p.scroll - 1)
	case tcell.KeyDown, tcell.KeyEnter:
		p.scrollTo(p.scroll + 1)
	case tcell.KeyPgUp:
		p.scrollTo(p.scroll - page)
	case tcell.KeyPgDn:
		p.scrollTo(p.scroll + page)
	case tcell.KeyHome:
		p.scrollTo(0)
	case tcell.KeyEnd:
		p.scrollTo(p.maxScroll())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			p.scrollTo(p.scroll - 1)
		case 'j':
			p.scrollTo(p.scroll + 1)
		case 'b':
			p.scrollTo(p.scroll - page)
		case ' ':
			p.scrollTo(p.scroll + page)
		case 'g':
			p.scrollTo(0)
		case 'G':
			p.scrollTo(p.maxScroll())
		}
	}
	return false
}

func (p *previewer) draw() {
	p.screen.Clear()
	w, h := p.screen.Size()
	rows := p.viewRows()

	frame := render.NewFrame(p.cf, p.viewport(), p.opts)
	p.term.Draw(frame, render.Region{X: 0, Y: 0, W: w, H: rows})

	text := tcell.StyleDefault
	for _, c := range p.cards {
		if c.top+len(c.lines) <= p.scroll || c.top >= p.scroll+rows {
			continue
		}
		for i, ln := range c.lines {
			y := c.top + i - p.scroll
			if y < 0 || y >= rows {
				continue
			}
			style := text
			if i == 0 {
				style = style.Bold(true)
			}
			drawText(p.screen, 2, y, w, ln, style)
		}
	}

	status := fmt.Sprintf(" %d poems  %d/%d  %s  q quit", len(p.poems), p.scroll, p.maxScroll(), p.cf.State())
	drawText(p.screen, 0, h-1, w, runewidth.FillRight(status, w), tcell.StyleDefault.Reverse(true))
	p.screen.Show()
}

// drawText writes str from (x, y), clipped at limit.
func drawText(s tcell.Screen, x, y, limit int, str string, style tcell.Style) {
	for _, ch := range str {
		cw := runewidth.RuneWidth(ch)
		if x+cw > limit {
			return
		}
		s.SetContent(x, y, ch, nil, style)
		x += cw
	}
}

func (p *previewer) close() {
	if p.timer != nil {
		p.timer.Stop()
	}
	p.tracker.Close()
}

// run is the event loop. It returns when the user quits, events closes or
// ctx is done.
func (p *previewer) run(ctx context.Context, events <-chan tcell.Event) error {
	p.regenerate(p.viewport())
	p.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if p.handleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				p.resize()
			}
			p.draw()
		case vp, ok := <-p.tracker.Changes():
			if !ok {
				return nil
			}
			if p.regenerate(vp) {
				p.draw()
			}
		case layer := <-p.commits:
			if p.commit(layer) {
				p.draw()
			}
		}
	}
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	poems, err := loadCollection(ctx, inPath)
	if err != nil {
		return err
	}
	lib, err := openLibrary(ctx, cfg, poems)
	if err != nil {
		return err
	}
	defer lib.Close()
	sel, err := lib.selectPoems(search, category)
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}

	p := newPreviewer(s, lib.gen, cfg, sel.poems, logger)
	defer p.close()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		for {
			ev := s.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-done:
				return nil
			}
		}
	})
	g.Go(func() error {
		defer s.Fini()
		defer close(done)
		return p.run(gctx, events)
	})
	return g.Wait()
}

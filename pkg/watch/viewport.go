package watch

import (
	"sync"
	"time"

	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

// ViewportTracker collects scroll, resize and layout notifications from a
// host and publishes the settled viewport once per quiet period.
type ViewportTracker struct {
	mu      sync.Mutex
	vp      wordcloud.Viewport
	changes chan wordcloud.Viewport
	deb     *Debouncer
	closed  bool
}

// NewViewportTracker starts tracking from initial. Settled viewports are
// delivered on Changes after delay of quiet.
func NewViewportTracker(initial wordcloud.Viewport, delay time.Duration) *ViewportTracker {
	t := &ViewportTracker{
		vp:      initial,
		changes: make(chan wordcloud.Viewport, 1),
	}
	t.deb = NewDebouncer(delay, t.emit)
	return t
}

// Changes delivers the latest settled viewport. Only the newest value is
// buffered; a slow reader skips intermediate states. The channel is closed
// by Close.
func (t *ViewportTracker) Changes() <-chan wordcloud.Viewport { return t.changes }

// Viewport returns the current, possibly unsettled, viewport.
func (t *ViewportTracker) Viewport() wordcloud.Viewport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.vp
}

// Scroll records a new scroll offset.
func (t *ViewportTracker) Scroll(y float64) {
	t.update(func(vp *wordcloud.Viewport) { vp.ScrollY = max(0, y) })
}

// Resize records new viewport dimensions.
func (t *ViewportTracker) Resize(w, h float64) {
	t.update(func(vp *wordcloud.Viewport) { vp.Width, vp.Height = w, h })
}

// SetDocumentHeight records a new scrollable height, e.g. after filtering.
func (t *ViewportTracker) SetDocumentHeight(h float64) {
	t.update(func(vp *wordcloud.Viewport) { vp.DocumentHeight = h })
}

// Refresh schedules a publication without changing the viewport, for hosts
// whose content changed under a still viewport.
func (t *ViewportTracker) Refresh() {
	t.update(func(*wordcloud.Viewport) {})
}

func (t *ViewportTracker) update(fn func(*wordcloud.Viewport)) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	fn(&t.vp)
	t.mu.Unlock()
	t.deb.Trigger()
}

func (t *ViewportTracker) emit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	select {
	case <-t.changes:
	default:
	}
	t.changes <- t.vp
}

// Close stops publishing and closes Changes.
func (t *ViewportTracker) Close() {
	t.deb.Stop()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	close(t.changes)
}

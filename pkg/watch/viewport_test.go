package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

func TestViewportTrackerPublishesSettledState(t *testing.T) {
	tr := NewViewportTracker(wordcloud.Viewport{Width: 1200, Height: 800, DocumentHeight: 800}, 16*time.Millisecond)
	defer tr.Close()

	for y := 0.0; y <= 500; y += 50 {
		tr.Scroll(y)
	}
	tr.Resize(1000, 700)
	tr.SetDocumentHeight(3000)

	select {
	case vp := <-tr.Changes():
		assert.Equal(t, wordcloud.Viewport{Width: 1000, Height: 700, DocumentHeight: 3000, ScrollY: 500}, vp)
	case <-time.After(time.Second):
		t.Fatal("no viewport published")
	}

	select {
	case vp := <-tr.Changes():
		t.Fatalf("unexpected second publication %+v", vp)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestViewportTrackerKeepsOnlyLatest(t *testing.T) {
	tr := NewViewportTracker(wordcloud.Viewport{Width: 100, Height: 100}, time.Millisecond)
	defer tr.Close()

	tr.Scroll(10)
	require.Eventually(t, func() bool { return len(tr.Changes()) == 1 }, time.Second, time.Millisecond)
	tr.Scroll(20)
	time.Sleep(20 * time.Millisecond)

	vp := <-tr.Changes()
	assert.Equal(t, 20.0, vp.ScrollY)
	assert.Empty(t, tr.Changes())
}

func TestViewportTrackerClampsAndCloses(t *testing.T) {
	tr := NewViewportTracker(wordcloud.Viewport{Height: 100}, time.Millisecond)
	tr.Scroll(-40)
	assert.Zero(t, tr.Viewport().ScrollY)

	tr.Close()
	tr.Close()
	tr.Scroll(10)

	_, open := <-tr.Changes()
	for open {
		_, open = <-tr.Changes()
	}
	assert.Zero(t, tr.Viewport().ScrollY)
}

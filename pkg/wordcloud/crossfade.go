package wordcloud

import (
	"slices"
	"sync"
)

// Layer names.
const (
	LayerA = "A"
	LayerB = "B"
)

// Role is what a layer is doing in the current transition.
type Role int

const (
	FadeOut Role = iota
	FadeIn
)

func (r Role) String() string {
	if r == FadeIn {
		return "fade-in"
	}
	return "fade-out"
}

// State of the cross-fade buffer.
type State int

const (
	Stable State = iota
	Transitioning
)

func (s State) String() string {
	if s == Transitioning {
		return "transitioning"
	}
	return "stable"
}

// Layer is a snapshot of one of the two display layers.
type Layer struct {
	Name  string      `json:"name"`
	Role  Role        `json:"role"`
	Words []Placement `json:"words"`
}

// CrossFade is the two-layer buffer behind the cloud. Every content change
// flips which layer fades in; the layer fading out keeps showing the
// retained snapshot until the host reports its transition finished via
// Commit, so a change never blanks the background.
type CrossFade struct {
	mu       sync.Mutex
	current  []Placement // shown by the incoming layer
	retained []Placement // shown by the outgoing layer
	flip     bool        // true: A fades in
	state    State
}

// NewCrossFade returns an empty, stable buffer.
func NewCrossFade() *CrossFade {
	return &CrossFade{}
}

// Update installs next as the incoming content and flips layer roles. It
// reports false, without flipping, when next equals the current content.
// Updating mid-transition supersedes it: the content that was fading in
// becomes the retained snapshot that now fades out.
func (cf *CrossFade) Update(next []Placement) bool {
	cf.mu.Lock()
	defer cf.mu.Unlock()

	if slices.Equal(next, cf.current) {
		return false
	}
	if cf.state == Transitioning {
		cf.retained = cf.current
	}
	cf.current = slices.Clone(next)
	cf.flip = !cf.flip
	cf.state = Transitioning
	return true
}

// Commit is the transition-end signal for the named layer. Only the
// outgoing layer of an active transition is accepted; the retained snapshot
// then advances to the current content.
func (cf *CrossFade) Commit(layer string) bool {
	cf.mu.Lock()
	defer cf.mu.Unlock()

	if cf.state != Transitioning || layer != cf.outgoingName() {
		return false
	}
	cf.retained = cf.current
	cf.state = Stable
	return true
}

// Outgoing names the layer whose transition end Commit waits for.
func (cf *CrossFade) Outgoing() string {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	return cf.outgoingName()
}

func (cf *CrossFade) outgoingName() string {
	if cf.flip {
		return LayerB
	}
	return LayerA
}

// State returns the buffer state.
func (cf *CrossFade) State() State {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	return cf.state
}

// Layers returns copies of the incoming and outgoing layers.
func (cf *CrossFade) Layers() (in, out Layer) {
	cf.mu.Lock()
	defer cf.mu.Unlock()

	in = Layer{Role: FadeIn, Words: slices.Clone(cf.current)}
	out = Layer{Role: FadeOut, Words: slices.Clone(cf.retained)}
	if cf.flip {
		in.Name, out.Name = LayerA, LayerB
	} else {
		in.Name, out.Name = LayerB, LayerA
	}
	return in, out
}

package wordcloud

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verse = `The sea is calm tonight.
The tide is full, the moon lies fair
Upon the straits; on the French coast the light
Gleams and is gone; the cliffs of England stand,
Glimmering and vast, out in the tranquil bay.`

func newTestGenerator(t *testing.T, mutate func(*Options)) *Generator {
	t.Helper()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	g, err := NewGenerator(opts, nil)
	require.NoError(t, err)
	return g
}

func TestGenerateScenarioB(t *testing.T) {
	t.Parallel()

	require.Empty(t, Tokenize(""))
	require.Empty(t, Rank(Tokenize("")))

	g := newTestGenerator(t, nil)
	assert.NotPanics(t, func() {
		assert.Empty(t, g.Generate("", Viewport{Width: 1200, Height: 800, DocumentHeight: 800}))
	})
}

func TestGenerateDegenerateInputs(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, nil)
	assert.Nil(t, g.Generate(verse, Viewport{Width: 1200, Height: 0, DocumentHeight: 3000}))
	assert.Nil(t, g.Generate("the and of it", Viewport{Width: 1200, Height: 800}))
}

func TestGenerateDensity(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, nil)
	vp := Viewport{Width: 1200, Height: 800, DocumentHeight: 2000}
	got := g.Generate(verse, vp)

	per := PerViewport(1200, 800, g.Options())
	require.Len(t, got, per*3)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.DocY, 0)
		assert.LessOrEqual(t, p.DocY, 2000)
		assert.GreaterOrEqual(t, p.FontSize, 28)
		assert.LessOrEqual(t, p.FontSize, 84)
	}
}

func TestGenerateWithoutRepetition(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, func(o *Options) { o.RepeatWeighted = false })
	got := g.Generate("love love love joy joy peace", Viewport{Width: 1200, Height: 800})
	require.Len(t, got, 3)
	assert.Equal(t, "love", got[0].Word)
	assert.Equal(t, 84, got[0].FontSize)
	assert.Equal(t, 28, got[2].FontSize)
}

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, nil)
	vp := Viewport{Width: 1024, Height: 768, DocumentHeight: 4000}
	a := g.Generate(verse, vp)
	b := g.Generate(verse, vp)
	assert.Equal(t, a, b)

	c := g.Generate(strings.ToUpper(verse)+" lighthouse", vp)
	assert.NotEqual(t, a, c)
}

func TestGenerateTokensMatchesGenerate(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, nil)
	vp := Viewport{Width: 1200, Height: 800, DocumentHeight: 1600}
	assert.Equal(t, g.Generate(verse, vp), g.GenerateTokens(verse, Tokenize(verse), vp))
}

func TestGenerateCustomSource(t *testing.T) {
	t.Parallel()

	calls := 0
	g := newTestGenerator(t, func(o *Options) {
		o.NewSource = func(seed uint32) Source {
			calls++
			return NewMulberry32(seed ^ 0xA5A5A5A5)
		}
	})
	got := g.Generate(verse, Viewport{Width: 1200, Height: 800})
	require.NotEmpty(t, got)
	assert.Greater(t, calls, 2)
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultOptions().Validate())

	bad := []func(*Options){
		func(o *Options) { o.MinFont = 0 },
		func(o *Options) { o.MaxFont = 10 },
		func(o *Options) { o.CoveragePerViewport = 0 },
		func(o *Options) { o.MaxOpacity = 1.5 },
		func(o *Options) { o.Candidates = 0 },
		func(o *Options) { o.FadeMs = -1 },
		func(o *Options) { o.Language = "fr" },
	}
	for _, mutate := range bad {
		o := DefaultOptions()
		mutate(&o)
		require.ErrorIs(t, o.Validate(), ErrInvalidOptions)
		_, err := NewGenerator(o, nil)
		require.ErrorIs(t, err, ErrInvalidOptions)
	}
}

func TestPerViewportAndTargetCount(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	// avg 56px gives a 190.4 × 62.72 box: 1200×800×0.22 / 11942 ≈ 17.7
	assert.Equal(t, 17, PerViewport(1200, 800, opts))
	assert.Equal(t, 1, PerViewport(10, 10, opts))
	assert.Equal(t, 51, TargetCount(17, 2100, 800))
	assert.Equal(t, 17, TargetCount(17, 100, 800))
	assert.Equal(t, 17, TargetCount(17, 5000, 0))
}

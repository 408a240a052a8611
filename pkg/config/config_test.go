package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, wordcloud.DefaultOptions().MinFont, cfg.MinFont)
	assert.Equal(t, "'Caveat', cursive", cfg.FontFamily)
	assert.Equal(t, 1200.0, cfg.Viewport.Width)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poemcloud.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
min_font: 20
max_font: 60
repeat_weighted: false
language: ja
viewport:
  height: 600
output:
  format: json
  color: "#000"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.MinFont)
	assert.Equal(t, 60.0, cfg.MaxFont)
	assert.False(t, cfg.RepeatWeighted)
	assert.Equal(t, "ja", cfg.Language)
	assert.Equal(t, 1200.0, cfg.Viewport.Width, "unset keys keep defaults")
	assert.Equal(t, 600.0, cfg.Viewport.Height)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "#faf6ee", cfg.Output.Background)
	assert.Equal(t, 0.22, cfg.CoveragePerViewport)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"font range": "min_font: 90\n",
		"language":   "language: fr\n",
		"viewport":   "viewport: {width: 0}\n",
		"format":     "output: {format: gif}\n",
		"color":      "output: {color: red}\n",
		"png ja":     "language: ja\noutput: {format: png}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestCheckFormat(t *testing.T) {
	cfg := Default()
	for _, f := range []string{"svg", "png", "json"} {
		assert.NoError(t, cfg.CheckFormat(f), f)
	}
	assert.ErrorIs(t, cfg.CheckFormat("gif"), ErrInvalid)

	cfg.Language = "ja"
	assert.ErrorIs(t, cfg.CheckFormat("png"), ErrInvalid, "the PNG font has no CJK glyphs")
	assert.NoError(t, cfg.CheckFormat("svg"))
}

func TestInvalidOptionsKeepCause(t *testing.T) {
	cfg := Default()
	cfg.Candidates = 0
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, wordcloud.ErrInvalidOptions)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "poemcloud.yaml")
	cfg := Default()
	cfg.MaxFont = 100
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_font: 100")
	assert.NotContains(t, string(data), "newsource")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Options.MaxFont, loaded.MaxFont)
	assert.Equal(t, cfg.Output, loaded.Output)
}

func TestDurationsAndViewport(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "16ms", cfg.ScrollDebounce().String())
	assert.Equal(t, "1.2s", cfg.Fade().String())
	assert.Equal(t, wordcloud.Viewport{Width: 1200, Height: 800, DocumentHeight: 800}, cfg.InitialViewport(100))
	assert.Equal(t, 2400.0, cfg.InitialViewport(2400).DocumentHeight)
}

// Package config loads poemcloud settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

var hexColorRE = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Config is the complete settings file. The cloud options sit at the top
// level of the YAML document.
type Config struct {
	wordcloud.Options `yaml:",inline"`

	Viewport ViewportConfig `yaml:"viewport"`
	Output   OutputConfig   `yaml:"output"`
}

// ViewportConfig is the page size used when no host reports one.
type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// OutputConfig controls rendered files.
type OutputConfig struct {
	Format     string `yaml:"format"` // svg, png, json
	Background string `yaml:"background"`
	Color      string `yaml:"color"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Options:  wordcloud.DefaultOptions(),
		Viewport: ViewportConfig{Width: 1200, Height: 800},
		Output: OutputConfig{
			Format:     "svg",
			Background: "#faf6ee",
			Color:      "#3b2f2a",
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Options.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport %gx%g", ErrInvalid, c.Viewport.Width, c.Viewport.Height)
	}
	if err := c.CheckFormat(c.Output.Format); err != nil {
		return err
	}
	for name, v := range map[string]string{"background": c.Output.Background, "color": c.Output.Color} {
		if !hexColorRE.MatchString(v) {
			return fmt.Errorf("%w: output %s %q is not a #rgb or #rrggbb color", ErrInvalid, name, v)
		}
	}
	return nil
}

// CheckFormat reports whether format can be rendered for the configured
// language. The bundled PNG font has no CJK glyphs.
func (c *Config) CheckFormat(format string) error {
	switch format {
	case "svg", "json":
	case "png":
		if c.Language == "ja" {
			return fmt.Errorf("%w: png output cannot draw Japanese text; use svg or json", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: output format %q", ErrInvalid, format)
	}
	return nil
}

// ScrollDebounce is the viewport debounce as a duration.
func (c *Config) ScrollDebounce() time.Duration {
	return time.Duration(c.ScrollDebounceMs) * time.Millisecond
}

// Fade is the cross-fade duration.
func (c *Config) Fade() time.Duration {
	return time.Duration(c.FadeMs) * time.Millisecond
}

// InitialViewport is the configured page as a viewport at the top of a
// document of the given height.
func (c *Config) InitialViewport(documentHeight float64) wordcloud.Viewport {
	return wordcloud.Viewport{
		Width:          c.Viewport.Width,
		Height:         c.Viewport.Height,
		DocumentHeight: max(documentHeight, c.Viewport.Height),
	}
}

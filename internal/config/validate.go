package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

var validFormats = map[string]bool{
	FormatRaw:        true,
	FormatStreamJSON: true,
	FormatSSE:        true,
}

var validRenders = map[string]bool{
	RenderPlain:    true,
	RenderMarkdown: true,
}

// Validate checks the config for errors. Defaults must already be applied.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.PathPrefix) == "" {
		return fmt.Errorf("config: 'path-prefix' must not be blank")
	}
	if _, err := cfg.Grammar(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if !validFormats[cfg.Format] {
		return fmt.Errorf("config: unknown format %q (must be raw, stream-json, or sse)", cfg.Format)
	}
	if cfg.ChunkSize <= 0 {
		return fmt.Errorf("config: 'chunk-size' must be > 0")
	}
	if !validRenders[cfg.Render] {
		return fmt.Errorf("config: unknown render mode %q (must be plain or markdown)", cfg.Render)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("config: invalid 'log-level' %q: %w", cfg.LogLevel, err)
	}

	for _, p := range cfg.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("config: include: invalid pattern %q", p)
		}
	}
	for _, p := range cfg.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("config: exclude: invalid pattern %q", p)
		}
	}

	return nil
}

// Apply overlays non-zero flag values onto the config and revalidates.
func (c *Config) Apply(o Overrides) error {
	if o.PathPrefix != "" {
		c.PathPrefix = o.PathPrefix
	}
	if o.XMLElement != nil {
		c.XMLElement = *o.XMLElement
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	if o.ChunkSize != 0 {
		c.ChunkSize = o.ChunkSize
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.Render != "" {
		c.Render = o.Render
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Overwrite {
		c.Overwrite = true
	}
	return Validate(c)
}

// Overrides holds command-line values that take precedence over the file.
// XMLElement is a pointer so that an explicit empty value can force fenced
// mode.
type Overrides struct {
	PathPrefix string
	XMLElement *string
	Format     string
	ChunkSize  int
	OutputDir  string
	Render     string
	LogLevel   string
	Overwrite  bool
}

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jorge-barreto/llmfiles/internal/fileblocks"
	"gopkg.in/yaml.v3"
)

// Dir is the per-project directory holding config and default output.
const Dir = ".llmfiles"

// Input formats accepted by the stream command.
const (
	FormatRaw        = "raw"
	FormatStreamJSON = "stream-json"
	FormatSSE        = "sse"
)

// Text block rendering modes.
const (
	RenderPlain    = "plain"
	RenderMarkdown = "markdown"
)

const (
	defaultChunkSize = 64
	defaultLogLevel  = "info"
)

type Config struct {
	PathPrefix string   `yaml:"path-prefix"`
	XMLElement string   `yaml:"xml-element"`
	Format     string   `yaml:"format"`
	ChunkSize  int      `yaml:"chunk-size"`
	OutputDir  string   `yaml:"output-dir"`
	Include    []string `yaml:"include"`
	Exclude    []string `yaml:"exclude"`
	Overwrite  bool     `yaml:"overwrite"`
	Render     string   `yaml:"render"`
	LogLevel   string   `yaml:"log-level"`
}

// Path returns the config file location under projectRoot.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, "config.yaml")
}

// Default returns a validated config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config file and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func applyDefaults(cfg *Config) {
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = fileblocks.DefaultPrefix
	}
	if cfg.Format == "" {
		cfg.Format = FormatRaw
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(Dir, "out")
	}
	if cfg.Render == "" {
		cfg.Render = RenderPlain
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
}

// Grammar builds the marker grammar described by the config.
func (c *Config) Grammar() (*fileblocks.Grammar, error) {
	return fileblocks.NewGrammar(c.PathPrefix, c.XMLElement)
}

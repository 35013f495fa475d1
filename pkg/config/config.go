package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml"
	yamlv3 "gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for option values outside their domain.
var ErrInvalid = errors.New("invalid config value")

// Config holds all configuration options for pymetrics.
type Config struct {
	Analysis   AnalysisConfig  `koanf:"analysis" toml:"analysis" yaml:"analysis"`
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds" yaml:"thresholds"`
	Exclude    ExcludeConfig   `koanf:"exclude" toml:"exclude" yaml:"exclude"`
	Cache      CacheConfig     `koanf:"cache" toml:"cache" yaml:"cache"`
	Output     OutputConfig    `koanf:"output" toml:"output" yaml:"output"`
}

// AnalysisConfig controls how cyclomatic complexity is computed and listed.
type AnalysisConfig struct {
	NoAssert     bool   `koanf:"no_assert" toml:"no_assert" yaml:"no_assert"`
	ShowClosures bool   `koanf:"show_closures" toml:"show_closures" yaml:"show_closures"`
	MinRank      string `koanf:"min_rank" toml:"min_rank" yaml:"min_rank"`
	MaxRank      string `koanf:"max_rank" toml:"max_rank" yaml:"max_rank"`
	Order        string `koanf:"order" toml:"order" yaml:"order"` // score, lines, alpha
}

// ThresholdConfig defines the values above which a block or class is reported.
type ThresholdConfig struct {
	Cyclomatic int `koanf:"cyclomatic" toml:"cyclomatic" yaml:"cyclomatic"`
	LCOM       int `koanf:"lcom" toml:"lcom" yaml:"lcom"`
	CBO        int `koanf:"cbo" toml:"cbo" yaml:"cbo"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns" yaml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs" yaml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore" yaml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" yaml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" yaml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" yaml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" yaml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color" yaml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MinRank: "A",
			MaxRank: "F",
			Order:   "score",
		},
		Thresholds: ThresholdConfig{
			Cyclomatic: 10,
			LCOM:       1,
			CBO:        7,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*_pb2.py",
				"*_pb2_grpc.py",
			},
			Dirs: []string{
				".git",
				".pymetrics",
				".venv",
				"venv",
				".tox",
				"__pycache__",
				"node_modules",
				"site-packages",
				"build",
				"dist",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".pymetrics/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file. Values missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	return cfg, nil
}

// configNames are searched, in order, in each of searchDirs.
var (
	configNames = []string{
		"pymetrics.toml",
		"pymetrics.yaml",
		"pymetrics.yml",
		"pymetrics.json",
		".pymetrics.toml",
		".pymetrics.yaml",
		".pymetrics.yml",
		".pymetrics.json",
	}
	searchDirs = []string{".", ".pymetrics"}
)

// Find returns the first config file found in the standard locations, or ""
// if there is none.
func Find() string {
	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault loads the first config found in the standard locations, or
// returns the defaults. A config file that fails to load is skipped.
func LoadOrDefault() *Config {
	if path := Find(); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	sep := string(filepath.Separator)
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, sep+dir+sep) || strings.HasPrefix(path, dir+sep) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// Validate reports option values the analyzers cannot use.
func (c *Config) Validate() error {
	for _, rank := range []string{c.Analysis.MinRank, c.Analysis.MaxRank} {
		if rank == "" {
			continue
		}
		if len(rank) != 1 || !strings.Contains("ABCDEF", strings.ToUpper(rank)) {
			return fmt.Errorf("%w: rank %q", ErrInvalid, rank)
		}
	}
	switch c.Analysis.Order {
	case "", "score", "lines", "alpha":
	default:
		return fmt.Errorf("%w: order %q", ErrInvalid, c.Analysis.Order)
	}
	switch c.Output.Format {
	case "", "text", "json", "markdown", "md", "toon":
	default:
		return fmt.Errorf("%w: format %q", ErrInvalid, c.Output.Format)
	}
	return nil
}

// TOML renders the config as a TOML document.
func (c *Config) TOML() ([]byte, error) {
	data, err := gotoml.Marshal(*c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to TOML: %w", err)
	}
	return data, nil
}

// YAML renders the config as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	return data, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultBaseURL             = "http://localhost:8000"
	DefaultTimeoutSec          = 30
	DefaultSimilarityThreshold = 0.7
	DefaultOnFailure           = "retain"
)

// Config holds the kbsearch client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig holds search API connection settings.
type APIConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	APIKey     string `yaml:"api_key"` // sent as Bearer token when set
}

// SearchConfig holds default search behaviour.
// Pointers distinguish an explicit zero/false from an absent key.
type SearchConfig struct {
	SimilarityThreshold *float64 `yaml:"similarity_threshold"`
	UseRAG              *bool    `yaml:"use_rag"`
	OnFailure           string   `yaml:"on_failure"` // retain (default) | clear
	LatestWins          bool     `yaml:"latest_wins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Default returns a configuration with every default applied.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// Load reads configuration by environment name (local, dev, prod).
// A missing file yields the defaults; a malformed one is an error.
func Load(env string) (Config, error) {
	cfg, err := LoadFile(findConfigPath(env))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.TimeoutSec <= 0 {
		c.API.TimeoutSec = DefaultTimeoutSec
	}
	if c.Search.SimilarityThreshold == nil {
		v := DefaultSimilarityThreshold
		c.Search.SimilarityThreshold = &v
	}
	if c.Search.UseRAG == nil {
		v := true
		c.Search.UseRAG = &v
	}
	if c.Search.OnFailure == "" {
		c.Search.OnFailure = DefaultOnFailure
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if t := c.Threshold(); t < 0 || t > 1 {
		return fmt.Errorf("search.similarity_threshold must be between 0 and 1, got %g", t)
	}
	switch c.Search.OnFailure {
	case "retain", "clear":
		// ok
	default:
		return fmt.Errorf("search.on_failure must be \"retain\" or \"clear\", got %q", c.Search.OnFailure)
	}
	if c.Logging.Level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}
	return nil
}

// Threshold returns the configured similarity threshold.
func (c *Config) Threshold() float64 {
	if c.Search.SimilarityThreshold == nil {
		return DefaultSimilarityThreshold
	}
	return *c.Search.SimilarityThreshold
}

// RAG reports whether searches request a generated answer.
func (c *Config) RAG() bool {
	return c.Search.UseRAG == nil || *c.Search.UseRAG
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

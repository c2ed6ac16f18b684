// Package config resolves the tagger's settings once per process from a
// YAML file, built-in defaults and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/seo-tagger/pkg/keywords"
	"github.com/dtnitsch/seo-tagger/pkg/language"
	"github.com/dtnitsch/seo-tagger/pkg/llm"
	"github.com/dtnitsch/seo-tagger/pkg/metadata"
	"github.com/dtnitsch/seo-tagger/pkg/strategy"
)

const (
	PathEnv      = "SEO_TAGGER_CONFIG"
	ProviderEnv  = "SEO_TAGGER_PROVIDER"
	ModelEnv     = "SEO_TAGGER_MODEL"
	GeminiKeyEnv = "GEMINI_API_KEY"
	OpenAIKeyEnv = "OPENAI_API_KEY"
)

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every setting the commands need. It is never mutated after Load.
type Config struct {
	AI         AIConfig               `yaml:"ai"`
	Extraction keywords.Options       `yaml:"extraction"`
	Metadata   metadata.Options       `yaml:"metadata"`
	Intent     metadata.IntentMarkers `yaml:"intent"`
	Languages  []string               `yaml:"languages"`
	Output     OutputConfig           `yaml:"output"`
	Database   DatabaseConfig         `yaml:"database"`
	Cache      CacheConfig            `yaml:"cache"`
	Logging    LoggingConfig          `yaml:"logging"`
	Server     ServerConfig           `yaml:"server"`
}

// AIConfig selects and tunes the AI strategy.
type AIConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`

	Timeout       time.Duration `yaml:"timeout"`
	MaxInputChars int           `yaml:"max_input_chars"`
	// RequestsPerMinute paces batch runs while the AI path is active.
	RequestsPerMinute int             `yaml:"requests_per_minute"`
	Retry             llm.RetryConfig `yaml:"retry"`
}

// OutputConfig controls where generated documents go.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig locates the run history database. An empty path puts it
// next to the binary.
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// CacheConfig controls the AI response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// LoggingConfig sets the log level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig tunes the HTTP endpoint.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		AI: AIConfig{
			Enabled:           true,
			Timeout:           strategy.DefaultTimeout,
			MaxInputChars:     strategy.DefaultMaxInputChars,
			RequestsPerMinute: 15,
			Retry:             llm.DefaultRetryConfig(),
		},
		Extraction: keywords.DefaultOptions(),
		Metadata:   metadata.DefaultOptions(),
		Intent:     metadata.DefaultIntentMarkers(),
		Languages:  language.DefaultLanguages,
		Output:     OutputConfig{Dir: "output"},
		Database:   DatabaseConfig{Enabled: true},
		Cache:      CacheConfig{Enabled: true, Dir: ".seo-tagger-cache", TTL: 7 * 24 * time.Hour},
		Logging:    LoggingConfig{Level: "info", Format: "json"},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Load reads the YAML file at path (or $SEO_TAGGER_CONFIG when path is
// empty) over the defaults, then applies environment overrides. A missing
// explicit file is an error; no file at all just yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: cannot read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: cannot parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(ProviderEnv); v != "" {
		c.AI.Provider = v
	}
	if v := os.Getenv(ModelEnv); v != "" {
		c.AI.Model = v
	}

	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	if c.AI.APIKey != "" {
		return
	}
	gemini, openai := os.Getenv(GeminiKeyEnv), os.Getenv(OpenAIKeyEnv)
	switch c.AI.Provider {
	case llm.ProviderGemini:
		c.AI.APIKey = gemini
	case llm.ProviderOpenAI:
		c.AI.APIKey = openai
	case "":
		if gemini != "" {
			c.AI.Provider, c.AI.APIKey = llm.ProviderGemini, gemini
		} else if openai != "" {
			c.AI.Provider, c.AI.APIKey = llm.ProviderOpenAI, openai
		}
	}
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.AI.Provider == "" {
		c.AI.Provider = llm.ProviderGemini
	}
	if c.AI.Model == "" {
		c.AI.Model = DefaultGeminiModel
		if c.AI.Provider == llm.ProviderOpenAI {
			c.AI.Model = DefaultOpenAIModel
		}
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = d.AI.Timeout
	}
	if c.AI.MaxInputChars <= 0 {
		c.AI.MaxInputChars = d.AI.MaxInputChars
	}
	if c.AI.RequestsPerMinute < 0 {
		c.AI.RequestsPerMinute = 0
	}
	if c.AI.Retry.MaxAttempts <= 0 {
		c.AI.Retry = d.AI.Retry
	}

	c.Extraction = c.Extraction.WithDefaults()
	c.Metadata.Intent = c.Intent
	if len(c.Languages) == 0 {
		c.Languages = d.Languages
	}
	if c.Output.Dir == "" {
		c.Output.Dir = d.Output.Dir
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = d.Cache.Dir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = d.Server.MaxBodyBytes
	}
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch c.AI.Provider {
	case llm.ProviderGemini, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("%w: unknown ai.provider %q", ErrInvalid, c.AI.Provider)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: logging.format must be json or text, got %q", ErrInvalid, c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown logging.level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

// Strategy returns the strategy selection settings. noAI forces rule-based.
func (c Config) Strategy(noAI bool) strategy.Config {
	return strategy.Config{
		UseAI:      c.AI.Enabled && !noAI,
		Credential: c.AI.APIKey,
		Timeout:    c.AI.Timeout,
	}
}

// PacingInterval is the minimum gap between AI-backed batch items, or 0
// when batches need no pacing.
func (c Config) PacingInterval(aiActive bool) time.Duration {
	if !aiActive || c.AI.RequestsPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(c.AI.RequestsPerMinute)
}

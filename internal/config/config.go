package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values applied after the config file is read.
const (
	// DefaultProvider is the completion backend used when none is configured.
	DefaultProvider = ProviderOpenAI

	// DefaultOpenAIModel is the model the extraction prompts were written against.
	DefaultOpenAIModel = "gpt-4.1"

	// DefaultGeminiModel is the default model for the Gemini backend.
	DefaultGeminiModel = "gemini-2.5-flash"

	// DefaultTemperature keeps extraction close to deterministic.
	DefaultTemperature = 0.3

	// DefaultOutputDir is where result files are written.
	DefaultOutputDir = "json"

	// DefaultPreferredSheet is tried before falling back to the first sheet.
	DefaultPreferredSheet = "Monthly JE"

	// DefaultTimeoutSeconds bounds a single invocation.
	DefaultTimeoutSeconds = 300

	// DefaultLogLevel is the zerolog level name used by the CLI.
	DefaultLogLevel = "info"
)

// Completion providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// API credential environment variables, one per provider.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// ErrMissingAPIKey is returned by Validate when the provider credential is absent.
var ErrMissingAPIKey = errors.New("missing API key")

// Config holds all configuration for one extraction invocation.
type Config struct {
	Provider       string    `yaml:"provider"`
	Model          string    `yaml:"model"`
	Temperature    *float32  `yaml:"temperature"`
	BaseURL        string    `yaml:"base_url"`
	OutputDir      string    `yaml:"output_dir"`
	PreferredSheet string    `yaml:"preferred_sheet"`
	TimeoutSeconds int       `yaml:"timeout_seconds"`
	LogLevel       string    `yaml:"log_level"`
	GCS            GCSConfig `yaml:"gcs"`

	// APIKey is never read from the file, only from the environment.
	APIKey string `yaml:"-"`
}

// GCSConfig controls staging of gs:// inputs.
type GCSConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	StagingDir      string `yaml:"staging_dir"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file. An empty path yields defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadFromEnv loads the file at path and then the provider API key from the
// environment. A .env file in the working directory is loaded first if present.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	cfg.APIKey = os.Getenv(cfg.APIKeyEnv())
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Model == "" {
		if c.Provider == ProviderGemini {
			c.Model = DefaultGeminiModel
		} else {
			c.Model = DefaultOpenAIModel
		}
	}
	if c.Temperature == nil {
		t := float32(DefaultTemperature)
		c.Temperature = &t
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.PreferredSheet == "" {
		c.PreferredSheet = DefaultPreferredSheet
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Overrides are command-line values; empty fields leave the loaded value.
type Overrides struct {
	Provider       string
	Model          string
	OutputDir      string
	PreferredSheet string
	LogLevel       string
}

// Apply replaces settings with non-empty overrides. Switching provider
// without naming a model resets the model to the new provider's default and
// re-reads the API key from that provider's variable.
func (c *Config) Apply(o Overrides) {
	if p := strings.ToLower(strings.TrimSpace(o.Provider)); p != "" && p != c.Provider {
		c.Provider = p
		if c.Model == DefaultOpenAIModel || c.Model == DefaultGeminiModel {
			c.Model = ""
		}
		c.APIKey = os.Getenv(c.APIKeyEnv())
	}
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.PreferredSheet != "" {
		c.PreferredSheet = o.PreferredSheet
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	c.applyDefaults()
}

// APIKeyEnv names the environment variable holding the provider credential.
func (c *Config) APIKeyEnv() string {
	if c.Provider == ProviderGemini {
		return EnvGeminiAPIKey
	}
	return EnvOpenAIAPIKey
}

// Timeout is the overall deadline for one invocation.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SamplingTemperature returns the configured temperature.
func (c *Config) SamplingTemperature() float32 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// Validate checks the settings needed before calling the completion service.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("config: %w: set %s", ErrMissingAPIKey, c.APIKeyEnv())
	}
	if t := c.SamplingTemperature(); t < 0 || t > 2 {
		return fmt.Errorf("config: temperature %.2f out of range [0, 2]", t)
	}
	return nil
}

package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/localrivet/configurator"
)

// Global configuration instance
var (
	// Global is the global configuration instance
	Global *Config
	// initOnce ensures initialization happens only once
	initOnce sync.Once
)

// InitGlobal initializes the global configuration
func InitGlobal(configPath string) (*Config, error) {
	var err error
	initOnce.Do(func() {
		Global, err = LoadConfigWithPath(configPath)
	})
	return Global, err
}

// Config represents the condense configuration
type Config struct {
	// Provider contains provider-related configuration.
	Provider struct {
		// Name selects the LLM provider for recursive summarization.
		Name string `json:"name" env:"PROVIDER_NAME" validate:"required"`

		// ModelID is the model used for the recursive summarization passes.
		ModelID string `json:"model_id" env:"PROVIDER_MODEL_ID"`

		// SynthesisModelID is the higher-capability model used for the
		// final synthesis pass.
		SynthesisModelID string `json:"synthesis_model_id" env:"PROVIDER_SYNTHESIS_MODEL_ID"`

		// ContextSize is the model's context window in tokens.
		ContextSize int `json:"context_size" env:"PROVIDER_CONTEXT_SIZE" validate:"min:1"`
	} `json:"provider"`

	// Cache contains call-cache configuration.
	Cache struct {
		// SQLitePath is the path to the SQLite cache database file.
		SQLitePath string `json:"sqlite_path" env:"SQLITE_PATH" validate:"required"`
	} `json:"cache"`

	// Summary contains summarization run configuration.
	Summary struct {
		// TargetSizes are the summary sizes, in tokens, produced before
		// the synthesis pass.
		TargetSizes []int `json:"target_sizes" env:"SUMMARY_TARGET_SIZES"`

		// Boundary is the split boundary character for oversized text.
		Boundary string `json:"boundary" env:"SUMMARY_BOUNDARY"`
	} `json:"summary"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level to display ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" validate:"required"`

		// Format is the log format to use ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`
	} `json:"logging"`

	// Internal state (not saved to config file)
	configPath     string       `json:"-"`
	mutex          sync.RWMutex `json:"-"`
	lastModifiedAt time.Time    `json:"-"`
}

// Default configuration values
const (
	DefaultConfigFilename = ".condenseconfig"
	DefaultSQLitePath     = ".condense-cache.db"
	DefaultProvider       = "openai"
	DefaultModelID        = "gpt-3.5-turbo-1106"
	DefaultSynthesisModel = "gpt-4"
	DefaultContextSize    = 16000
	DefaultBoundary       = "."
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// DefaultTargetSizes are the summary sizes produced before synthesis.
var DefaultTargetSizes = []int{500, 750, 1000}

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	config := &Config{}
	config.Provider.Name = DefaultProvider
	config.Provider.ModelID = DefaultModelID
	config.Provider.SynthesisModelID = DefaultSynthesisModel
	config.Provider.ContextSize = DefaultContextSize
	config.Cache.SQLitePath = DefaultSQLitePath
	config.Summary.TargetSizes = append([]int(nil), DefaultTargetSizes...)
	config.Summary.Boundary = DefaultBoundary
	config.Logging.Level = DefaultLogLevel
	config.Logging.Format = DefaultLogFormat
	return config
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from a specific path
func LoadConfigWithPath(configPath string) (*Config, error) {
	// Create a default logger for configuration loading
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Create default configuration
	cfg := NewConfig()

	// Try to find config file if path is default
	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file at " + foundPath)
		}
	}

	// Check if the file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// File doesn't exist, return default config
		stdLogger.Info("Config file not found, using default configuration", "path", configPath)
		cfg.configPath = configPath
		cfg.lastModifiedAt = time.Now()
		return cfg, nil
	}

	stdLogger.Info("Loading configuration", "path", configPath)

	// Create configurator instance
	config := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider()).
		WithProvider(configurator.NewFileProvider(configPath)).
		WithProvider(configurator.NewEnvProvider("CONDENSE")).
		WithValidator(configurator.NewDefaultValidator())

	// Load configuration
	ctx := context.Background()
	if err := config.Load(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Store the config path for future operations
	cfg.configPath = configPath
	cfg.lastModifiedAt = time.Now()

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file
func (c *Config) SaveToFile(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Create directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Save using configurator's SaveToFile function
	if err := configurator.SaveToFile(c, path, configurator.FormatJSON); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Update internal state
	c.configPath = path
	c.lastModifiedAt = time.Now()

	return nil
}

// Save saves the configuration to the last used file path
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = DefaultConfigFilename
	}
	return c.SaveToFile(c.configPath)
}

// GetConfigPath returns the path of the currently loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/CloudNativeWorks/paperctl/internal/papermc"
	"github.com/CloudNativeWorks/paperctl/pkg/logger"
	"github.com/spf13/viper"
	"gopkg.in/go-playground/validator.v9"
)

const (
	configName = "paperctl"
	envPrefix  = "PAPERCTL"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig holds PaperMC API client configuration
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"min=0"` // 0 disables the timeout
	UserAgent string        `mapstructure:"user_agent"`
	Debug     bool          `mapstructure:"debug"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required,oneof=trace debug info warn warning error fatal panic"`
	Format     string `mapstructure:"format" validate:"required,oneof=text json"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size" validate:"min=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

// OutputConfig controls how command results are rendered
type OutputConfig struct {
	Format string `mapstructure:"format" validate:"required,oneof=text json yaml"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: papermc.DefaultBaseURL,
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "text",
			MaxSize:    10,
			MaxAge:     28,
			MaxBackups: 3,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from defaults, the config file and
// PAPERCTL_* environment variables, in increasing precedence. An empty path
// searches the default locations; a missing default file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout", def.API.Timeout)
	v.SetDefault("api.user_agent", def.API.UserAgent)
	v.SetDefault("api.debug", def.API.Debug)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.max_size", def.Logging.MaxSize)
	v.SetDefault("logging.max_age", def.Logging.MaxAge)
	v.SetDefault("logging.max_backups", def.Logging.MaxBackups)
	v.SetDefault("logging.compress", def.Logging.Compress)
	v.SetDefault("output.format", def.Output.Format)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.paperctl")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// InitLogger initializes the global logger from the logging configuration
func InitLogger(cfg *LoggingConfig) error {
	return logger.Init(logger.Config{
		Level:      cfg.Level,
		Format:     cfg.Format,
		Module:     "main",
		File:       cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Serper   SerperConfig   `yaml:"serper" mapstructure:"serper"`
	Gemini   GeminiConfig   `yaml:"gemini" mapstructure:"gemini"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port                int      `yaml:"port" mapstructure:"port"`
	ReadTimeoutSecs     int      `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs    int      `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	ShutdownTimeoutSecs int      `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
	CORSOrigins         []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SerperConfig holds Serper API settings.
type SerperConfig struct {
	Key              string `yaml:"key" mapstructure:"key"`
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MinIntervalMs    int    `yaml:"min_interval_ms" mapstructure:"min_interval_ms"`
	RetryAttempts    int    `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	InitialBackoffMs int    `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int    `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// Timeout returns the per-attempt request timeout.
func (c SerperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// MinInterval returns the minimum spacing between outbound calls.
func (c SerperConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMs) * time.Millisecond
}

// GeminiConfig holds Generative Language API settings. Keys are supplied by
// callers per request.
type GeminiConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DefaultModel   string `yaml:"default_model" mapstructure:"default_model"`
	FallbackModel  string `yaml:"fallback_model" mapstructure:"fallback_model"`
	AcceptTestKeys bool   `yaml:"accept_test_keys" mapstructure:"accept_test_keys"`
}

// Timeout returns the per-request timeout.
func (c GeminiConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// AnalysisConfig configures opportunity analysis.
type AnalysisConfig struct {
	ChainIndicators []string `yaml:"chain_indicators" mapstructure:"chain_indicators"`
}

// Validation modes, one per command family.
const (
	ModeServe    = "serve"
	ModeSearch   = "search"
	ModeGenerate = "generate"
)

// Validate checks the settings required by mode and reports every problem
// at once.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case ModeServe:
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server.port must be > 0 and <= 65535, got %d", c.Server.Port))
		}
		errs = append(errs, c.searchErrors()...)
	case ModeSearch:
		errs = append(errs, c.searchErrors()...)
	case ModeGenerate:
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or console, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) searchErrors() []string {
	var errs []string
	if strings.TrimSpace(c.Serper.Key) == "" {
		errs = append(errs, "serper.key is required (set SERPER_API_KEY or BIZSCOUT_SERPER_KEY)")
	}
	if c.Serper.RetryAttempts < 1 {
		errs = append(errs, fmt.Sprintf("serper.retry_attempts must be >= 1, got %d", c.Serper.RetryAttempts))
	}
	if c.Serper.MinIntervalMs < 0 {
		errs = append(errs, fmt.Sprintf("serper.min_interval_ms must be >= 0, got %d", c.Serper.MinIntervalMs))
	}
	return errs
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BIZSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("serper.key", "BIZSCOUT_SERPER_KEY", "SERPER_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind serper key")
	}

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_secs", 15)
	v.SetDefault("server.write_timeout_secs", 120)
	v.SetDefault("server.shutdown_timeout_secs", 10)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serper.timeout_secs", 15)
	v.SetDefault("serper.min_interval_ms", 1000)
	v.SetDefault("serper.retry_attempts", 3)
	v.SetDefault("serper.initial_backoff_ms", 1000)
	v.SetDefault("serper.max_backoff_ms", 10000)
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.timeout_secs", 60)
	v.SetDefault("gemini.default_model", "gemini-pro")
	v.SetDefault("gemini.fallback_model", "models/gemini-1.5-flash")
	v.SetDefault("gemini.accept_test_keys", false)
	v.SetDefault("analysis.chain_indicators", []string{})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

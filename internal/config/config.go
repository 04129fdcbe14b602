// Package config handles loading and validating the listening2go configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the listening2go daemon.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Generator  GeneratorConfig  `mapstructure:"generator"`
	Audio      AudioConfig      `mapstructure:"audio"`
	Limits     LimitsConfig     `mapstructure:"limits"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
	HTTP HTTPConfig `mapstructure:"http"`
}

// GRPCConfig configures the gRPC health transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the HTTP API and UI transport.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// GeneratorConfig selects and configures the generation backend.
type GeneratorConfig struct {
	Backend string       `mapstructure:"backend"` // "gemini"
	Gemini  GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"` // empty uses the SDK default
	TextModel   string        `mapstructure:"text_model"`
	SpeechModel string        `mapstructure:"speech_model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// AudioConfig is the PCM layout assumed when the synthesis response does not
// report one.
type AudioConfig struct {
	SampleRate    uint32 `mapstructure:"sample_rate"`
	Channels      uint16 `mapstructure:"channels"`
	BitsPerSample uint16 `mapstructure:"bits_per_sample"`
}

// LimitsConfig bounds upstream usage.
type LimitsConfig struct {
	UpstreamPerMinute float64 `mapstructure:"upstream_per_minute"` // 0 disables the limiter
	UpstreamBurst     int     `mapstructure:"upstream_burst"`
	MaxSessions       int     `mapstructure:"max_sessions"`

	// SessionIdleTTL closes sessions unused for this long; 0 disables expiry.
	SessionIdleTTL time.Duration `mapstructure:"session_idle_ttl"`
}

// TelemetryConfig holds metrics settings.
type TelemetryConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./listening2go.yaml, ./configs/listening2go.yaml,
// /etc/listening2go/listening2go.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("generator.backend", "gemini")
	v.SetDefault("generator.gemini.api_key", "${GEMINI_API_KEY}")
	v.SetDefault("generator.gemini.base_url", "")
	v.SetDefault("generator.gemini.text_model", "gemini-3-flash-preview")
	v.SetDefault("generator.gemini.speech_model", "gemini-2.5-flash-preview-tts")
	v.SetDefault("generator.gemini.temperature", 0.7)
	v.SetDefault("generator.gemini.timeout", "120s")
	v.SetDefault("audio.sample_rate", 24000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.bits_per_sample", 16)
	v.SetDefault("limits.upstream_per_minute", 30)
	v.SetDefault("limits.upstream_burst", 5)
	v.SetDefault("limits.max_sessions", 1000)
	v.SetDefault("limits.session_idle_ttl", "30m")
	v.SetDefault("telemetry.service_name", "listening2go")
	v.SetDefault("telemetry.metrics_enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("listening2go")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/listening2go")
	}

	// Environment variables: LISTENING2GO_SERVER_HEALTH_PORT, LISTENING2GO_GENERATOR_GEMINI_API_KEY, etc.
	v.SetEnvPrefix("LISTENING2GO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional, env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${GEMINI_API_KEY}")
	cfg.Generator.Gemini.APIKey = resolveEnvRef(cfg.Generator.Gemini.APIKey)
	if cfg.Generator.Gemini.APIKey == "" {
		cfg.Generator.Gemini.APIKey = os.Getenv("API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late, at request time.
// A missing API key is not a config error: it is reported per request.
func (c *Config) Validate() error {
	if c.Audio.SampleRate == 0 || c.Audio.Channels == 0 || c.Audio.BitsPerSample == 0 {
		return fmt.Errorf("invalid config: audio sample_rate, channels and bits_per_sample must be positive")
	}
	if c.Limits.SessionIdleTTL < 0 {
		return fmt.Errorf("invalid config: limits.session_idle_ttl must not be negative")
	}
	if c.Limits.UpstreamPerMinute < 0 {
		return fmt.Errorf("invalid config: limits.upstream_per_minute must not be negative")
	}
	if c.Transports.HTTP.Enabled && c.Transports.HTTP.Port <= 0 {
		return fmt.Errorf("invalid config: transports.http.port must be positive")
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var
// value. An unset variable resolves to the empty string.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

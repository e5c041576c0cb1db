package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// =============================================================================
// Tool Configuration
// =============================================================================

// Config holds tool-level configuration: where state lives and how the
// orchestrator is reached. Project configuration is resolved separately, per
// project, by the resolver.
type Config struct {
	// StateDir is the base directory holding one subdirectory per project
	// identity (compiled descriptor, transient credential channel).
	StateDir string `mapstructure:"state_dir"`

	// ComposeCommand is the orchestrator invocation prefix.
	ComposeCommand string `mapstructure:"compose_command"`

	Log  LogConfig  `mapstructure:"log"`
	Cron CronConfig `mapstructure:"cron"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CronConfig holds the background job-processing poll settings.
type CronConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads tool configuration from an optional file and the
// environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("state_dir", defaultStateDir())
	v.SetDefault("compose_command", "docker compose")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("cron.interval", "60s")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	v.SetEnvPrefix("DEVSTACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".devstack"
	}
	return filepath.Join(home, ".devstack")
}

// =============================================================================
// Logger Setup
// =============================================================================

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// SetupLogger builds the process logger from the log section. Unknown levels
// fall back to info. Logs always go to stderr; stdout carries command output.
func SetupLogger(cfg *Config) *slog.Logger {
	level, ok := logLevels[strings.ToLower(cfg.Log.Level)]
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.ToLower(cfg.Log.Format) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

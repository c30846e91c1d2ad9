// Package gdconfig loads configuration for the gdelegate command.
//
// Values are layered: defaults, then an optional TOML file,
// then GDELEGATE_* environment variables.
// Command line flags are applied on top by the caller.
package gdconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/gordian-engine/gdelegate/dvengine"
	"github.com/gordian-engine/gdelegate/dvtally"
)

type Config struct {
	HTTPAddr string `toml:"http_addr" env:"GDELEGATE_HTTP_ADDR"`

	// Mode used when a scenario does not name one.
	DefaultMode string `toml:"default_mode" env:"GDELEGATE_DEFAULT_MODE"`

	MaxIterations int     `toml:"max_iterations" env:"GDELEGATE_MAX_ITERATIONS"`
	Tolerance     float64 `toml:"tolerance" env:"GDELEGATE_TOLERANCE"`

	LogLevel  string `toml:"log_level" env:"GDELEGATE_LOG_LEVEL"`
	LogFormat string `toml:"log_format" env:"GDELEGATE_LOG_FORMAT"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTPAddr:      "127.0.0.1:8080",
		DefaultMode:   dvtally.ModeWeighted.String(),
		MaxIterations: dvengine.DefaultMaxIterations,
		Tolerance:     dvengine.DefaultTolerance,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load returns the default configuration,
// overridden by the TOML file at path (if path is not empty)
// and then by the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		md, err := toml.Decode(string(b), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return Config{}, fmt.Errorf("config parse failed (%s): unknown keys %v", path, undec)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting in c.
func (c Config) Validate() error {
	if _, err := dvtally.ParseMode(c.DefaultMode); err != nil {
		return fmt.Errorf("invalid default_mode: %w", err)
	}
	if _, err := c.EngineOpts(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// Mode returns the parsed default mode.
func (c Config) Mode() (dvtally.Mode, error) {
	return dvtally.ParseMode(c.DefaultMode)
}

// EngineOpts converts the engine settings to [dvengine.Opt] values,
// checking them in the process.
func (c Config) EngineOpts() ([]dvengine.Opt, error) {
	opts := []dvengine.Opt{
		dvengine.WithMaxIterations(c.MaxIterations),
		dvengine.WithTolerance(c.Tolerance),
	}
	if _, err := dvengine.New(nil, opts...); err != nil {
		return nil, err
	}
	return opts, nil
}

// ParseLevel parses a log level name.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", raw)
	}
}

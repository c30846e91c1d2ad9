// Package gdcmd contains the cobra commands for the gdelegate binary.
package gdcmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gordian-engine/gdelegate/internal/gdconfig"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the gdelegate command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gdelegate",
		Short: "Resolve delegated voting power",

		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "path to a TOML config file")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text or json)")

	root.AddCommand(
		newResolveCommand(),
		newServeCommand(),
		newBenchCommand(),
	)

	return root
}

// loadConfig loads the config file named by --config,
// then applies any explicitly set persistent flags.
func loadConfig(cmd *cobra.Command) (gdconfig.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return gdconfig.Config{}, err
	}

	cfg, err := gdconfig.Load(path)
	if err != nil {
		return gdconfig.Config{}, err
	}

	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-format"); f != nil && f.Changed {
		cfg.LogFormat = f.Value.String()
	}
	if f := cmd.Flags().Lookup("max-iterations"); f != nil && f.Changed {
		cfg.MaxIterations, err = cmd.Flags().GetInt("max-iterations")
		if err != nil {
			return gdconfig.Config{}, err
		}
	}
	if f := cmd.Flags().Lookup("tolerance"); f != nil && f.Changed {
		cfg.Tolerance, err = cmd.Flags().GetFloat64("tolerance")
		if err != nil {
			return gdconfig.Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return gdconfig.Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg gdconfig.Config) (*slog.Logger, error) {
	lvl, err := gdconfig.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch cfg.LogFormat {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
}

// addEngineFlags adds the flags that override engine configuration.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-iterations", 0, "maximum weighted-mode iterations (default from config)")
	cmd.Flags().Float64("tolerance", 0, "weighted-mode convergence tolerance (default from config)")
}

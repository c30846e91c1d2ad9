package gdcmd

import (
	"encoding/json"
	"fmt"

	"github.com/gordian-engine/gdelegate/dvengine"
	"github.com/gordian-engine/gdelegate/dvgraph"
	"github.com/gordian-engine/gdelegate/dvscenario"
	"github.com/gordian-engine/gdelegate/dvtally"
	"github.com/spf13/cobra"
)

func newResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve SCENARIO_FILE",
		Short: "Resolve a scenario file (.toml or .json) and print the tally as JSON",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			s, err := dvscenario.Load(args[0])
			if err != nil {
				return err
			}

			fallback, err := cfg.Mode()
			if err != nil {
				return err
			}
			mode, err := s.DefaultMode(fallback)
			if err != nil {
				return err
			}
			if raw, _ := cmd.Flags().GetString("mode"); raw != "" {
				mode, err = dvtally.ParseMode(raw)
				if err != nil {
					return err
				}
			}

			reg, err := s.Build()
			if err != nil {
				return fmt.Errorf("invalid scenario %s: %w", args[0], err)
			}

			opts, err := cfg.EngineOpts()
			if err != nil {
				return err
			}
			e, err := dvengine.New(log.With("sys", "engine"), opts...)
			if err != nil {
				return err
			}

			tally, err := e.Resolve(dvgraph.Build(reg), mode)
			if err != nil {
				return err
			}

			breakdown, _ := cmd.Flags().GetBool("breakdown")

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tally.Report(breakdown))
		},
	}

	cmd.Flags().String("mode", "", "resolution mode: broadcast or weighted (default from scenario, then config)")
	cmd.Flags().Bool("breakdown", false, "include per-participant outcome breakdown (weighted mode)")
	addEngineFlags(cmd)

	return cmd
}

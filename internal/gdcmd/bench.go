package gdcmd

import (
	"fmt"
	"math/rand/v2"
	"text/tabwriter"
	"time"

	"github.com/gordian-engine/gdelegate/dvengine"
	"github.com/gordian-engine/gdelegate/dvgraph"
	"github.com/gordian-engine/gdelegate/dvregistry"
	"github.com/gordian-engine/gdelegate/dvscenario"
	"github.com/gordian-engine/gdelegate/dvscenario/dvscenariotest"
	"github.com/gordian-engine/gdelegate/dvtally"
	"github.com/spf13/cobra"
)

func newBenchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time resolution over randomly generated delegation graphs",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			rawMode, _ := cmd.Flags().GetString("mode")
			mode, err := dvtally.ParseMode(rawMode)
			if err != nil {
				return err
			}
			sizes, _ := cmd.Flags().GetIntSlice("sizes")
			seed, _ := cmd.Flags().GetUint64("seed")

			opts, err := cfg.EngineOpts()
			if err != nil {
				return err
			}
			e, err := dvengine.New(log.With("sys", "engine"), opts...)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(seed, seed))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "participants\tgenerate\tresolve\titerations\tyes\tno\tresolved\tlost")

			for _, n := range sizes {
				if n < 1 {
					return fmt.Errorf("invalid size %d", n)
				}

				genStart := time.Now()
				var s dvscenario.Scenario
				if mode == dvtally.ModeBroadcast {
					s = dvscenariotest.RandomBroadcast(rng, n)
				} else {
					s = dvscenariotest.RandomWeighted(rng, n)
				}
				reg, err := s.Build()
				if err != nil {
					return fmt.Errorf("failed to build generated scenario: %w", err)
				}
				g := dvgraph.Build(reg)
				genDur := time.Since(genStart)

				resStart := time.Now()
				tally, err := e.Resolve(g, mode)
				if err != nil {
					return err
				}
				resDur := time.Since(resStart)

				fmt.Fprintf(
					tw, "%d\t%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
					n, genDur.Round(time.Microsecond), resDur.Round(time.Microsecond),
					tally.Diagnostics().Iterations,
					tally.Outcome(dvregistry.OutcomeYes), tally.Outcome(dvregistry.OutcomeNo),
					tally.TotalResolved(), tally.LostWeight(),
				)
			}

			return tw.Flush()
		},
	}

	cmd.Flags().IntSlice("sizes", []int{10, 100, 1000, 10000}, "participant counts to generate")
	cmd.Flags().Uint64("seed", 1, "random seed for graph generation")
	cmd.Flags().String("mode", "weighted", "resolution mode: broadcast or weighted")
	addEngineFlags(cmd)

	return cmd
}

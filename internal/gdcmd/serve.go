package gdcmd

import (
	"fmt"
	"net"

	"github.com/gordian-engine/gdelegate/dvengine"
	"github.com/gordian-engine/gdelegate/dvhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenario resolution over HTTP",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if f := cmd.Flags().Lookup("http-addr"); f.Changed {
				cfg.HTTPAddr = f.Value.String()
			}

			log, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			opts, err := cfg.EngineOpts()
			if err != nil {
				return err
			}
			e, err := dvengine.New(log.With("sys", "engine"), opts...)
			if err != nil {
				return err
			}
			mode, err := cfg.Mode()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m, err := dvhttp.NewMetrics(reg)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", cfg.HTTPAddr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.HTTPAddr, err)
			}

			ctx := cmd.Context()
			httpLog := log.With("sys", "http")
			httpLog.Info("Serving HTTP", "addr", ln.Addr().String())

			srv := dvhttp.NewHTTPServer(ctx, httpLog, dvhttp.HTTPServerConfig{
				Listener: ln,

				Engine:      e,
				DefaultMode: mode,

				Metrics:  m,
				Gatherer: reg,
			})
			srv.Wait()

			return nil
		},
	}

	cmd.Flags().String("http-addr", "", "address to listen on (default from config)")
	addEngineFlags(cmd)

	return cmd
}

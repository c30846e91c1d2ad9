package dvhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gordian-engine/gdelegate/dvengine"
	"github.com/gordian-engine/gdelegate/dvgraph"
	"github.com/gordian-engine/gdelegate/dvscenario"
	"github.com/gordian-engine/gdelegate/dvtally"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodyBytes bounds the size of a scenario accepted by /resolve.
const DefaultMaxBodyBytes = 8 << 20

type HTTPServer struct {
	done chan struct{}
}

type HTTPServerConfig struct {
	Listener net.Listener

	Engine *dvengine.Engine

	// Mode used when neither the request nor the scenario names one.
	DefaultMode dvtally.Mode

	// Optional. When set, every resolution is recorded.
	Metrics *Metrics

	// Optional. When set, served at /metrics.
	Gatherer prometheus.Gatherer

	// Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

func NewHTTPServer(ctx context.Context, log *slog.Logger, cfg HTTPServerConfig) *HTTPServer {
	srv := &http.Server{
		Handler: NewHandler(log, cfg),

		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	h := &HTTPServer{
		done: make(chan struct{}),
	}
	go h.serve(log, cfg.Listener, srv)
	go h.waitForShutdown(ctx, srv)

	return h
}

func (h *HTTPServer) Wait() {
	<-h.done
}

func (h *HTTPServer) waitForShutdown(ctx context.Context, srv *http.Server) {
	select {
	case <-h.done:
		// h.serve returned on its own, nothing left to do here.
		return
	case <-ctx.Done():
		// Resolutions are short and bounded, so a forceful close is fine.
		_ = srv.Close()
	}
}

func (h *HTTPServer) serve(log *slog.Logger, ln net.Listener, srv *http.Server) {
	defer close(h.done)

	if err := srv.Serve(ln); err != nil {
		if errors.Is(err, net.ErrClosed) || errors.Is(err, http.ErrServerClosed) {
			log.Info("HTTP server shutting down")
		} else {
			log.Info("HTTP server shutting down due to error", "err", err)
		}
	}
}

// NewHandler returns the router used by [NewHTTPServer],
// for callers that manage their own http.Server.
func NewHandler(log *slog.Logger, cfg HTTPServerConfig) http.Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.DefaultMode == 0 {
		cfg.DefaultMode = dvtally.ModeWeighted
	}

	r := mux.NewRouter()

	r.HandleFunc("/resolve", handleResolve(log, cfg)).Methods("POST")
	r.HandleFunc("/healthz", handleHealthz).Methods("GET")

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func handleResolve(log *slog.Logger, cfg HTTPServerConfig) func(w http.ResponseWriter, req *http.Request) {
	return func(w http.ResponseWriter, req *http.Request) {
		defer req.Body.Close()

		body := http.MaxBytesReader(w, req.Body, cfg.MaxBodyBytes)
		s, err := dvscenario.Decode(body, dvscenario.FormatJSON)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		mode, err := requestMode(req, s, cfg.DefaultMode)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		withBreakdown := false
		if raw := req.URL.Query().Get("breakdown"); raw != "" {
			withBreakdown, err = strconv.ParseBool(raw)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid breakdown parameter: %v", err), http.StatusBadRequest)
				return
			}
		}

		reg, err := s.Build()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		tally, err := cfg.Engine.Resolve(dvgraph.Build(reg), mode)
		if err != nil {
			// Mode was already validated, so this is unexpected.
			log.Warn("Failed to resolve scenario", "mode", mode, "err", err)
			http.Error(w, "internal error while resolving", http.StatusInternalServerError)
			return
		}

		if cfg.Metrics != nil {
			cfg.Metrics.Observe(tally)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(tally.Report(withBreakdown)); err != nil {
			log.Warn("Failed to encode resolution report", "err", err)
			return
		}
	}
}

// requestMode picks the mode from the "mode" query parameter,
// then from the scenario, then fallback.
func requestMode(req *http.Request, s dvscenario.Scenario, fallback dvtally.Mode) (dvtally.Mode, error) {
	if raw := req.URL.Query().Get("mode"); raw != "" {
		return dvtally.ParseMode(raw)
	}
	return s.DefaultMode(fallback)
}

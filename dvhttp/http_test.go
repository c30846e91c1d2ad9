package dvhttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gordian-engine/gdelegate/dvengine"
	"github.com/gordian-engine/gdelegate/dvhttp"
	"github.com/gordian-engine/gdelegate/dvregistry"
	"github.com/gordian-engine/gdelegate/dvscenario/dvscenariotest"
	"github.com/gordian-engine/gdelegate/dvtally"
	"github.com/gordian-engine/gdelegate/internal/gtest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	Handler http.Handler
	Reg     *prometheus.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	log := gtest.NewLogger(t)
	e, err := dvengine.New(log.With("sys", "engine"))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m, err := dvhttp.NewMetrics(reg)
	require.NoError(t, err)

	h := dvhttp.NewHandler(log.With("sys", "http"), dvhttp.HTTPServerConfig{
		Engine:      e,
		DefaultMode: dvtally.ModeBroadcast,
		Metrics:     m,
		Gatherer:    reg,
	})
	return fixture{Handler: h, Reg: reg}
}

func (f fixture) do(t *testing.T, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	f.Handler.ServeHTTP(w, httptest.NewRequest(method, target, body))
	return w
}

func scenarioJSON(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestResolve_weighted(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	w := fx.do(t, "POST", "/resolve?breakdown=true", scenarioJSON(t, dvscenariotest.ProportionalDelegation()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var r dvtally.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))

	require.Equal(t, "weighted", r.Mode)
	require.InDelta(t, dvscenariotest.ProportionalYes, r.Outcomes[dvregistry.OutcomeYes], 1e-2)
	require.InDelta(t, dvscenariotest.ProportionalNo, r.Outcomes[dvregistry.OutcomeNo], 1e-2)
	require.InDelta(t, dvscenariotest.ProportionalLost, r.LostWeight, 1e-2)
	require.Contains(t, r.Breakdown, "David")
	require.True(t, r.Diagnostics.Converged)

	n, err := testutil.GatherAndCount(fx.Reg, "gdelegate_resolutions_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestResolve_modeOverride(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	// The query parameter wins over the scenario's own mode.
	s := dvscenariotest.MutualCycle()
	s.Mode = "weighted"
	w := fx.do(t, "POST", "/resolve?mode=broadcast", scenarioJSON(t, s))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var r dvtally.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	require.Equal(t, "broadcast", r.Mode)
	require.Equal(t, map[string]float64{"v": 1}, r.Weights)
	require.Equal(t, 2.0, r.LostWeight)
	require.False(t, r.Diagnostics.Converged)
	require.Equal(t, []string{"a", "b"}, r.Diagnostics.Trapped)
}

func TestResolve_badRequests(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	for name, tc := range map[string]struct {
		target string
		body   string
	}{
		"malformed json":  {"/resolve", `{`},
		"unknown field":   {"/resolve", `{"voterz": []}`},
		"unknown mode":    {"/resolve?mode=ranked", `{}`},
		"bad breakdown":   {"/resolve?breakdown=maybe", `{}`},
		"invalid outcome": {"/resolve", `{"commitments": [{"participant": "a", "outcome": "abstain", "amount": 1}]}`},
		"over commitment": {"/resolve", `{"commitments": [{"participant": "a", "outcome": "yes", "amount": 2}]}`},
		"negative stake":  {"/resolve", `{"stakes": {"a": -3}}`},
		"scenario mode":   {"/resolve", `{"mode": "ranked"}`},
	} {
		t.Run(name, func(t *testing.T) {
			w := fx.do(t, "POST", tc.target, strings.NewReader(tc.body))
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	w := fx.do(t, "GET", "/resolve", nil)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthzAndMetrics(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	w := fx.do(t, "GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok\n", w.Body.String())

	w = fx.do(t, "POST", "/resolve", scenarioJSON(t, dvscenariotest.Chain(3)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = fx.do(t, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `gdelegate_resolutions_total{converged="true",mode="broadcast"} 1`)
	require.Contains(t, w.Body.String(), `gdelegate_lost_weight{mode="broadcast"} 0`)
}

func TestHTTPServer_shutdown(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	e, err := dvengine.New(gtest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := dvhttp.NewHTTPServer(ctx, gtest.NewLogger(t), dvhttp.HTTPServerConfig{
		Listener: ln,
		Engine:   e,
	})

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	srv.Wait()
}

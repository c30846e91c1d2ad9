package gdcmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gordian-engine/gdelegate/dvregistry"
	"github.com/gordian-engine/gdelegate/dvscenario/dvscenariotest"
	"github.com/gordian-engine/gdelegate/dvtally"
	"github.com/gordian-engine/gdelegate/internal/gdcmd"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, ctx context.Context, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := gdcmd.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err = cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func writeScenario(t *testing.T, name string, v any) string {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, b, 0o600))
	return p
}

func TestResolve_weightedScenario(t *testing.T) {
	t.Parallel()

	p := writeScenario(t, "s.json", dvscenariotest.ProportionalDelegation())
	out, _, err := run(t, context.Background(), "resolve", "--breakdown", p)
	require.NoError(t, err)

	var r dvtally.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Equal(t, "weighted", r.Mode)
	require.InDelta(t, dvscenariotest.ProportionalYes, r.Outcomes[dvregistry.OutcomeYes], 1e-2)
	require.InDelta(t, dvscenariotest.ProportionalNo, r.Outcomes[dvregistry.OutcomeNo], 1e-2)
	require.Len(t, r.Breakdown, 8)
}

func TestResolve_flagsOverride(t *testing.T) {
	t.Parallel()

	p := writeScenario(t, "s.json", dvscenariotest.ProportionalDelegation())
	out, _, err := run(t, context.Background(), "resolve", "--max-iterations", "1", p)
	require.NoError(t, err)

	var r dvtally.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Equal(t, 1, r.Diagnostics.Iterations)
	require.False(t, r.Diagnostics.Converged)

	out, _, err = run(t, context.Background(), "resolve", "--mode", "broadcast", p)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Equal(t, "broadcast", r.Mode)
}

func TestResolve_tomlScenario(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "cycle.toml")
	require.NoError(t, os.WriteFile(p, []byte(`
mode = "broadcast"
voters = ["v"]

[delegations]
a = ["b"]
b = ["a"]
`), 0o600))

	out, _, err := run(t, context.Background(), "resolve", p)
	require.NoError(t, err)

	var r dvtally.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Equal(t, map[string]float64{"v": 1}, r.Weights)
	require.Equal(t, 2.0, r.LostWeight)
}

func TestResolve_errors(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, context.Background(), "resolve")
	require.Error(t, err)

	p := writeScenario(t, "bad.json", map[string]any{
		"commitments": []map[string]any{
			{"participant": "a", "outcome": "maybe", "amount": 1},
		},
	})
	_, _, err = run(t, context.Background(), "resolve", p)
	require.ErrorIs(t, err, dvregistry.ErrInvalidOutcome)

	_, _, err = run(t, context.Background(), "resolve", "--tolerance", "-1", p)
	require.Error(t, err)
}

func TestBench(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, context.Background(), "bench", "--sizes", "5,20", "--seed", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "participants"))
	require.True(t, strings.HasPrefix(lines[1], "5 "))
	require.True(t, strings.HasPrefix(lines[2], "20 "))

	_, _, err = run(t, context.Background(), "bench", "--sizes", "0")
	require.Error(t, err)
}

func TestServe_stopsWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := run(t, ctx, "serve", "--http-addr", "127.0.0.1:0", "--log-format", "json")
	require.NoError(t, err)
}

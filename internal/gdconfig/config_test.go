package gdconfig_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gordian-engine/gdelegate/dvtally"
	"github.com/gordian-engine/gdelegate/internal/gdconfig"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	cfg, err := gdconfig.Load("")
	require.NoError(t, err)
	require.Equal(t, gdconfig.Default(), cfg)

	m, err := cfg.Mode()
	require.NoError(t, err)
	require.Equal(t, dvtally.ModeWeighted, m)
}

func TestLoad_fileThenEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "gdelegate.toml")
	require.NoError(t, os.WriteFile(p, []byte(`
http_addr = ":9000"
default_mode = "broadcast"
max_iterations = 25
tolerance = 1e-9
`), 0o600))

	t.Setenv("GDELEGATE_MAX_ITERATIONS", "50")
	t.Setenv("GDELEGATE_LOG_FORMAT", "json")

	cfg, err := gdconfig.Load(p)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTPAddr)
	require.Equal(t, "broadcast", cfg.DefaultMode)
	require.Equal(t, 50, cfg.MaxIterations)
	require.Equal(t, 1e-9, cfg.Tolerance)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)

	opts, err := cfg.EngineOpts()
	require.NoError(t, err)
	require.Len(t, opts, 2)
}

func TestLoad_invalid(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("listen = 1\n"), 0o600))
	_, err := gdconfig.Load(unknown)
	require.ErrorContains(t, err, "unknown keys")

	_, err = gdconfig.Load(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)

	badIters := filepath.Join(dir, "iters.toml")
	require.NoError(t, os.WriteFile(badIters, []byte("max_iterations = 0\n"), 0o600))
	_, err = gdconfig.Load(badIters)
	require.Error(t, err)

	t.Setenv("GDELEGATE_DEFAULT_MODE", "ranked")
	_, err = gdconfig.Load("")
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	lvl, err := gdconfig.ParseLevel("WARNING")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, lvl)

	_, err = gdconfig.ParseLevel("loud")
	require.Error(t, err)
}

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/propjournal/challenge"
	"github.com/rustyeddy/propjournal/config"
	"github.com/rustyeddy/propjournal/store"
)

// resetFlags restores every flag to its default so that one Execute does
// not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(dir, "data")
	cfg.Export.Dir = filepath.Join(dir, "out")
	cfg.Log.Console = false
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, cfg.SaveToFile(path))
	return path
}

func TestJournalWorkflow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, append([]string{"--config", cfgPath}, args...)...)
		require.NoError(t, err, out)
		return out
	}

	out := run("settings", "type", "one-step")
	assert.Contains(t, out, "targets 10% / 0%")

	out = run("trade", "add", "--date", "2024-05-01", "--entry", "XAUUSD", "--lots", "0.03", "--outcome", "Win", "--notes", "first")
	assert.Contains(t, out, "10120.00")
	out = run("trade", "add", "--date", "2024-05-02", "--entry", "XAUUSD", "--lots", "0.03", "--outcome", "loss")
	assert.Contains(t, out, "10069.40")

	out = run("trade", "list")
	assert.Contains(t, out, "10120.00")
	assert.Contains(t, out, "10069.40")

	out = run("metrics", "--date", "2024-05-02")
	assert.Contains(t, out, "Trades:         2")
	assert.Contains(t, out, "Win Rate:       50.00%")

	out = run("curve", "--width", "20")
	assert.Contains(t, out, "10000.00")

	slots, err := store.Open(store.BackendFile, filepath.Join(dir, "data"))
	require.NoError(t, err)
	st, err := store.Load(context.Background(), slots, challenge.Default())
	require.NoError(t, err)
	require.NoError(t, slots.Close())
	require.Len(t, st.Trades, 2)
	assert.Equal(t, challenge.OneStep, st.Settings.ChallengeType)

	out = run("trade", "show", st.Trades[0].ID)
	assert.Contains(t, out, ":EQUITY_AFTER: 10120.00")

	out = run("trade", "edit", st.Trades[0].ID, "outcome", "loss")
	assert.Contains(t, out, "9950.00")

	out = run("export", "xlsx")
	assert.Contains(t, out, "Exported 2 trades")
	xlsx := filepath.Join(dir, "out", "XAUUSD_ULTIMATE_TRADING_JOURNAL.xlsx")
	_, err = os.Stat(xlsx)
	require.NoError(t, err)

	out = run("export", "csv", "-o", filepath.Join(dir, "trades.csv"))
	assert.Contains(t, out, "trades.csv")

	out = run("trade", "delete", st.Trades[1].ID)
	assert.Contains(t, out, "1 trades left")

	other := filepath.Join(dir, "other")
	out = run("--store", other, "import", xlsx)
	assert.Contains(t, out, "Imported 2 trade(s)")
	out = run("--store", other, "trade", "list")
	assert.Contains(t, out, "9950.00")
}

func TestSettingsErrors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	_, err := execute(t, "--config", cfgPath, "settings", "set", "riskPercent", "50")
	assert.ErrorIs(t, err, challenge.ErrInvalidSetting)

	_, err = execute(t, "--config", cfgPath, "settings", "set", "leverage", "5")
	assert.ErrorIs(t, err, challenge.ErrUnknownSetting)

	_, err = execute(t, "--config", cfgPath, "settings", "account", "12345")
	assert.ErrorContains(t, err, "account size must be one of")

	out, err := execute(t, "--config", cfgPath, "settings", "set", "riskPercent", "")
	require.NoError(t, err)
	assert.Contains(t, out, "riskPercent unchanged")

	out, err = execute(t, "--config", cfgPath, "settings", "preset", "safe")
	require.NoError(t, err)
	assert.Contains(t, out, "risk preset safe (0.25%)")

	out, err = execute(t, "--config", cfgPath, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "riskPercent")
	assert.Contains(t, out, "0.25")
}

func TestConfigAndVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "journal version")
}

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/propjournal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"loud":  zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestConsoleRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, closer := New(config.LogConfig{Level: "warn", Console: true}, &buf)
	defer closer.Close()

	log.Info().Msg("quiet")
	log.Warn().Str("slot", "propFirmTrades").Msg("discarded corrupt slot")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "discarded corrupt slot")
	assert.Contains(t, out, "slot=propFirmTrades")
}

func TestFileSink(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "journal.log")
	log, closer := New(config.LogConfig{Level: "debug", File: true, FilePath: path, MaxSize: 1}, nil)

	log.Debug().Int("from", 0).Msg("recalculated")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"recalculated"`)
	assert.Contains(t, string(b), `"from":0`)
}

func TestNoSinks(t *testing.T) {
	t.Parallel()

	log, closer := New(config.LogConfig{Level: "info"}, nil)
	log.Error().Msg("dropped")
	assert.NoError(t, closer.Close())
}

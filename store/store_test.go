package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/propjournal/challenge"
	"github.com/rustyeddy/propjournal/journal"
)

func newTestFile(t *testing.T) *File {
	t.Helper()

	f, err := NewFile(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return f
}

func TestFileSetGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTestFile(t)

	_, ok, err := f.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.Set(ctx, SettingsKey, "one"))
	require.NoError(t, f.Set(ctx, SettingsKey, "two"))
	v, ok, err := f.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")

	require.NoError(t, f.Delete(ctx, SettingsKey))
	require.NoError(t, f.Delete(ctx, SettingsKey))
	_, ok, err = f.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileRejectsBadKeys(t *testing.T) {
	t.Parallel()

	f := newTestFile(t)
	assert.Error(t, f.Set(context.Background(), "../escape", "x"))
	_, _, err := f.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestFileQuota(t *testing.T) {
	t.Parallel()

	f := newTestFile(t)
	f.MaxBytes = 2
	assert.ErrorIs(t, f.Set(context.Background(), TradesKey, "[{}]"), ErrQuotaExceeded)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	s, err := Open(BackendFile, filepath.Join(dir, "slots"))
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)
	require.NoError(t, s.Close())

	s, err = Open(BackendSQLite, filepath.Join(dir, "journal.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open("redis", dir)
	assert.Error(t, err)
}

func TestLoadEmpty(t *testing.T) {
	t.Parallel()

	st, err := Load(context.Background(), newTestFile(t), challenge.Default())
	require.NoError(t, err)
	assert.Equal(t, challenge.Default(), st.Settings)
	assert.Empty(t, st.Trades)
	assert.Empty(t, st.Warnings)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTestFile(t)

	s := challenge.Default().WithType(challenge.OneStep)
	s.AccountBalance = 25000
	trades := []journal.Trade{
		{ID: "a", Date: "2024-05-01", Session: journal.Asian, Entry: "XAUUSD", LotSize: 0.03, Outcome: journal.Win, EquityAfter: 25120},
		{ID: "b", Date: "2024-05-02", Session: journal.NewYork, Entry: "EURUSD", LotSize: 0.1, Outcome: journal.Loss, Notes: "late"},
	}
	require.NoError(t, Save(ctx, f, s, trades))

	st, err := Load(ctx, f, challenge.Default())
	require.NoError(t, err)
	assert.Equal(t, s, st.Settings)
	assert.Equal(t, trades, st.Trades)
	assert.Empty(t, st.Warnings)
}

func TestLoadDiscardsCorruptSlots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings string
		trades   string
	}{
		{"malformed json", `{"accountBalance":`, `[{"id":`},
		{"wrong shape", `[1,2]`, `{"id":"a"}`},
		{"scalar", `42`, `"trades"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			f := newTestFile(t)
			require.NoError(t, f.Set(ctx, SettingsKey, tt.settings))
			require.NoError(t, f.Set(ctx, TradesKey, tt.trades))

			st, err := Load(ctx, f, challenge.Default())
			require.NoError(t, err)
			assert.Equal(t, challenge.Default(), st.Settings)
			assert.Empty(t, st.Trades)
			assert.Len(t, st.Warnings, 2)

			_, ok, _ := f.Get(ctx, SettingsKey)
			assert.False(t, ok, "corrupt settings slot is cleared")
			_, ok, _ = f.Get(ctx, TradesKey)
			assert.False(t, ok, "corrupt trades slot is cleared")
		})
	}
}

func TestLoadMergesPartialSettings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTestFile(t)
	require.NoError(t, f.Set(ctx, SettingsKey, `{"accountBalance":50000,"challengeType":"bogus","riskPercent":1}`))

	st, err := Load(ctx, f, challenge.Default())
	require.NoError(t, err)
	assert.Equal(t, 50000.0, st.Settings.AccountBalance)
	assert.Equal(t, challenge.TwoStep, st.Settings.ChallengeType)
	assert.Equal(t, 20.0, st.Settings.StopLossPips)
}

func TestLoadSkipsMalformedTrades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTestFile(t)
	require.NoError(t, f.Set(ctx, TradesKey, `[null, 7, {"id":"x","entry":"XAUUSD","lotSize":"0.03","outcome":"Win"}, {"entry":"EURUSD"}]`))

	st, err := Load(ctx, f, challenge.Default())
	require.NoError(t, err)
	require.Len(t, st.Trades, 2)
	assert.Equal(t, "x", st.Trades[0].ID)
	assert.Equal(t, 0.03, st.Trades[0].LotSize)
	assert.NotEmpty(t, st.Trades[1].ID)
	assert.Equal(t, []string{"2 malformed trade records skipped"}, st.Warnings)
}

type failingSlots struct {
	*File
	failKey string
}

func (f failingSlots) Set(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return ErrQuotaExceeded
	}
	return f.File.Set(ctx, key, value)
}

func TestSaveWritesOtherSlotOnFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := failingSlots{File: newTestFile(t), failKey: SettingsKey}

	err := Save(ctx, fs, challenge.Default(), nil)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	v, ok, err := fs.Get(ctx, TradesKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestSQLite(t)
	assert.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='slots'`).Scan(&name)
	assert.NoError(t, err)
	assert.Equal(t, "slots", name)
}

func TestSQLiteSetGetOverwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, path := newTestSQLite(t)

	_, ok, err := s.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, SettingsKey, `{"a":1}`))
	require.NoError(t, s.Set(ctx, SettingsKey, `{"a":2}`))

	v, ok, err := s.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":2}`, v)

	at, ok, err := s.UpdatedAt(ctx, SettingsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, at.IsZero())

	require.NoError(t, s.Close())
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM slots`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestSQLite(t)

	require.NoError(t, s.Set(ctx, TradesKey, `[]`))
	require.NoError(t, s.Delete(ctx, TradesKey))
	require.NoError(t, s.Delete(ctx, TradesKey))

	_, ok, err := s.Get(ctx, TradesKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteQuota(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	s.MaxBytes = 4

	err := s.Set(context.Background(), TradesKey, `[1,2,3]`)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

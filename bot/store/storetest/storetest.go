// Package storetest opens throwaway stores for tests of packages that sit on
// top of the store.
package storetest

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rolebot/bot/config"
	"rolebot/bot/store"
)

// Open returns a store backed by a sqlite file in a temporary directory. It
// is closed when the test ends.
func Open(t testing.TB) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), config.Database{
		Type: config.DatabaseSQLite,
		DSN:  filepath.Join(t.TempDir(), "test.sqlite3"),
	}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

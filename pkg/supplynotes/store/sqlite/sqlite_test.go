package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/supplynotes/pkg/supplynotes/internalerr"
	"github.com/cognicore/supplynotes/pkg/supplynotes/store"
	"github.com/cognicore/supplynotes/pkg/supplynotes/store/storetest"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err, "OpenSQLite should succeed")
	return st
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, newTestStore)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")

	st, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	_, err = st.UpsertSupplier(ctx, store.Supplier{ID: "s1", Name: "Stellar Metalworks", NormalizedName: "stellar metalworks"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = OpenSQLite(ctx, path)
	require.NoError(t, err, "schema creation must be idempotent")
	defer st.Close()

	got, err := st.GetSupplier(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Stellar Metalworks", got.Name)
}

func TestSQLiteOpenBadPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "notes.db"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrStoreUnavailable))
}

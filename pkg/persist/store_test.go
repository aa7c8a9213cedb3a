package persist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
)

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	data, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, store.Save(ctx, "tabs", []byte("first")))
	require.NoError(t, store.Save(ctx, "tabs", []byte("second")))

	data, err = store.Load(ctx, "tabs")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	require.NoError(t, store.Delete(ctx, "tabs"))
	require.NoError(t, store.Delete(ctx, "tabs"))

	data, err = store.Load(ctx, "tabs")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Save(ctx, "tabs", nil), ErrStoreClosed)
	_, err = store.Load(ctx, "tabs")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Delete(ctx, "tabs"), ErrStoreClosed)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	buf := []byte("abc")
	require.NoError(t, store.Save(ctx, "k", buf))
	buf[0] = 'z'

	got, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
	assert.Equal(t, 1, store.Len())
}

func TestSQLStoreSQLite(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db, DialectSQLite))
	require.NoError(t, Migrate(db, DialectSQLite), "migrating twice is a no-op")

	exerciseStore(t, NewSQLStore(db))

	require.NoError(t, db.Ping(), "store without WithOwnedDB must leave db open")
}

func TestSQLStorePlaceholders(t *testing.T) {
	assert.Equal(t, "?", NewSQLStore(nil).placeholder(1))
	assert.Equal(t, "$2", NewSQLStore(nil, WithSQLDialect(DialectPostgreSQL)).placeholder(2))
}

func TestStoreErrorCodes(t *testing.T) {
	cause := errors.New("connection refused")

	err := storeError("save", cause)
	assert.Equal(t, "G022", kiterrors.CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, storeError("save", nil))

	err = migrateError("postgres", cause)
	assert.Equal(t, "G023", kiterrors.CodeOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestMigrationSources(t *testing.T) {
	for _, dir := range []string{"migrations/sqlite", "migrations/postgres"} {
		entries, err := migrationFS.ReadDir(dir)
		require.NoError(t, err, dir)
		assert.Len(t, entries, 2, dir)
	}

	up, err := migrationFS.ReadFile("migrations/postgres/0001_create_snapshots.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "BYTEA")
}

func TestOpen(t *testing.T) {
	isolateAWS(t)
	ctx := context.Background()

	store, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(ctx, Options{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	exerciseStore(t, store)

	store, err = Open(ctx, Options{Driver: "s3", Bucket: "b", Region: "us-east-1"})
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, store)

	_, err = Open(ctx, Options{Driver: "s3"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.dsn")

	_, err = Open(ctx, Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "missing", "groupkit.db")})
	require.Error(t, err)
	assert.Equal(t, "G023", kiterrors.CodeOf(err))

	_, err = Open(ctx, Options{Driver: "redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

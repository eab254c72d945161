package store

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Shared contract
// =============================================================================

// exerciseBackend runs the Get/Put/Delete contract every backend must meet.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Put(ctx, "k", []byte("one")))
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))

	require.NoError(t, b.Put(ctx, "k", []byte("two")))
	got, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	require.NoError(t, b.Delete(ctx, "k"))
	_, err = b.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, b.Delete(ctx, "k"))
}

// =============================================================================
// File
// =============================================================================

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "nested", "dir"))
	require.NoError(t, err)
	defer b.Close()

	exerciseBackend(t, b)
}

func TestFileBackend_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, b.Put(context.Background(), "platesync:records", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "platesync_records.json", entries[0].Name())
}

func TestFileBackend_RequiresDir(t *testing.T) {
	_, err := NewFileBackend("")
	assert.Error(t, err)
}

// =============================================================================
// Redis
// =============================================================================

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedisBackend(client, "ps:")
	defer b.Close()

	exerciseBackend(t, b)

	require.NoError(t, b.Put(context.Background(), "records", []byte("x")))
	assert.True(t, mr.Exists("ps:records"), "key is stored under the prefix")
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	b, err := OpenRedis(context.Background(), mr.Addr(), "", 0, "")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Put(context.Background(), "a", []byte("1")))
	got, err := mr.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), addr, "", 0, "")
	assert.Error(t, err)
}

// =============================================================================
// Postgres
// =============================================================================

func newMockPostgres(t *testing.T) (*PostgresBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv_store")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	b, err := NewPostgresBackend(context.Background(), db, "ps:")
	require.NoError(t, err)
	return b, mock
}

func TestPostgresBackend_Get(t *testing.T) {
	b, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectValue)).
		WithArgs("ps:records").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"records":[]}`)))

	got, err := b.Get(context.Background(), "records")
	require.NoError(t, err)
	assert.Equal(t, `{"records":[]}`, string(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_GetMissing(t *testing.T) {
	b, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectValue)).
		WithArgs("ps:nope").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := b.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_PutUpserts(t *testing.T) {
	b, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_store (key, value, updated_at)")).
		WithArgs("ps:import_config", []byte("{}")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, b.Put(context.Background(), "import_config", []byte("{}")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_Delete(t *testing.T) {
	b, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteValue)).
		WithArgs("ps:records").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, b.Delete(context.Background(), "records"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackend_QueryError(t *testing.T) {
	b, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectValue)).
		WithArgs("ps:records").
		WillReturnError(assert.AnError)

	_, err := b.Get(context.Background(), "records")
	require.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, ErrNotFound)
}

// =============================================================================
// Open
// =============================================================================

func TestOpen(t *testing.T) {
	b, err := Open(context.Background(), Settings{Kind: KindFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	mr := miniredis.RunT(t)
	b, err = Open(context.Background(), Settings{Kind: KindRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisBackend{}, b)
	b.Close()

	_, err = Open(context.Background(), Settings{Kind: "s3"})
	assert.Error(t, err)
}

package repository

import (
	"testing"
	"time"

	"chunkdex/internal/config"
	"chunkdex/internal/database"
	"chunkdex/pkg/chunk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(format string, args ...any) {}
func (noopLogger) Info(format string, args ...any)  {}
func (noopLogger) Warn(format string, args ...any)  {}
func (noopLogger) Error(format string, args ...any) {}
func (noopLogger) Fatal(format string, args ...any) {}

func newTestRepo(t *testing.T) *IndexRepository {
	t.Helper()
	dir := t.TempDir()
	mgr := database.NewManager(config.DatabaseConfig{
		DataDir:         dir,
		DatabaseName:    "test.db",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}, noopLogger{})
	require.NoError(t, mgr.Initialize())
	t.Cleanup(func() { mgr.Close() })
	return New(mgr)
}

func TestUpsertFileInsertsNewRow(t *testing.T) {
	repo := newTestRepo(t)
	id, err := repo.UpsertFile("a.c", "digest1", "c")
	require.NoError(t, err)
	assert.NotZero(t, id)

	digest, ok, err := repo.Digest("a.c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "digest1", digest)
}

func TestUpsertFileUpdatesAndClearsOldRecords(t *testing.T) {
	repo := newTestRepo(t)
	id1, err := repo.UpsertFile("a.c", "digest1", "c")
	require.NoError(t, err)

	require.NoError(t, repo.InsertRecords(id1, []chunk.Record{
		{Line: 1, Column: 1, Scope: "<global>", IDKind: chunk.IDFunction, SubKind: chunk.SubKindDefinition, Name: "f"},
	}))

	id2, err := repo.UpsertFile("a.c", "digest2", "c")
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "re-indexing the same path must reuse its file id")

	rows, err := repo.Lookup(QueryOpts{Defs: true, LikePattern: "f"})
	require.NoError(t, err)
	assert.Empty(t, rows, "old records should be cleared when a file is re-indexed")

	digest, ok, err := repo.Digest("a.c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "digest2", digest)
}

func TestInsertRecordsRoutesByTable(t *testing.T) {
	repo := newTestRepo(t)
	id, err := repo.UpsertFile("a.c", "digest1", "c")
	require.NoError(t, err)

	require.NoError(t, repo.InsertRecords(id, []chunk.Record{
		{Line: 1, Column: 5, Scope: "<global>", IDKind: chunk.IDFunction, SubKind: chunk.SubKindDefinition, Name: "f"},
		{Line: 3, Column: 5, Scope: "<global>", IDKind: chunk.IDFunction, SubKind: chunk.SubKindDeclaration, Name: "g"},
		{Line: 5, Column: 3, Scope: "f{}", IDKind: chunk.IDFunction, SubKind: chunk.SubKindReference, Name: "g"},
	}))

	defs, err := repo.Lookup(QueryOpts{Defs: true, LikePattern: "f"})
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "DEFINITION", defs[0].SubKind)

	refs, err := repo.Lookup(QueryOpts{Refs: true, LikePattern: "g"})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "REFERENCE", refs[0].SubKind)

	decls, err := repo.Lookup(QueryOpts{Decls: true, LikePattern: "g"})
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "DECLARATION", decls[0].SubKind)
}

func TestLookupWithNoFilterSearchesAllTables(t *testing.T) {
	repo := newTestRepo(t)
	id, err := repo.UpsertFile("a.c", "digest1", "c")
	require.NoError(t, err)

	require.NoError(t, repo.InsertRecords(id, []chunk.Record{
		{Line: 1, Column: 5, Scope: "<global>", IDKind: chunk.IDFunction, SubKind: chunk.SubKindDefinition, Name: "f"},
		{Line: 5, Column: 3, Scope: "g{}", IDKind: chunk.IDFunction, SubKind: chunk.SubKindReference, Name: "f"},
	}))

	rows, err := repo.Lookup(QueryOpts{LikePattern: "f"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRemoveFileDeletesRow(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.UpsertFile("a.c", "digest1", "c")
	require.NoError(t, err)

	require.NoError(t, repo.RemoveFile("a.c"))

	_, ok, err := repo.Digest("a.c")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKnownPaths(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.UpsertFile("a.c", "d1", "c")
	require.NoError(t, err)
	_, err = repo.UpsertFile("b.c", "d2", "c")
	require.NoError(t, err)

	paths, err := repo.KnownPaths()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.c", "b.c"}, paths)
}

func TestRecordRun(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.RecordRun("run-1", 10, 8, 2))

	var count int
	require.NoError(t, repo.db.GetDB().QueryRow(`SELECT COUNT(*) FROM index_runs WHERE run_id = ?`, "run-1").Scan(&count))
	assert.Equal(t, 1, count)
}

package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chunkdex/internal/config"
	"chunkdex/internal/database"
	"chunkdex/internal/digestcache"
	"chunkdex/internal/metrics"
	"chunkdex/internal/repository"
	"chunkdex/internal/scanner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(format string, args ...any) {}
func (noopLogger) Info(format string, args ...any)  {}
func (noopLogger) Warn(format string, args ...any)  {}
func (noopLogger) Error(format string, args ...any) {}
func (noopLogger) Fatal(format string, args ...any) {}

func newTestService(t *testing.T) (*IndexService, *repository.IndexRepository) {
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

	cache, err := digestcache.Open(filepath.Join(dir, "digest"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	repo := repository.New(mgr)
	sc := scanner.New(config.ScanConfig{FileIncludePatterns: config.DefaultFileIncludePatterns})
	mr, err := metrics.New()
	require.NoError(t, err)

	return New(sc, cache, repo, mr, noopLogger{}, 0), repo
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestRunIndexesNewFiles(t *testing.T) {
	svc, repo := newTestService(t)
	root := t.TempDir()
	writeFile(t, root, "a.c", "int print_event_filter(void) {\n  return 0;\n}\n")

	result, err := svc.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesScanned)
	assert.Equal(t, 1, result.FilesIndexed)
	assert.Equal(t, 0, result.FilesSkipped)
	assert.NotEmpty(t, result.RunID)

	rows, err := repo.Lookup(repository.QueryOpts{Defs: true, LikePattern: "print_event_filter"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRunSkipsUnchangedFileOnSecondPass(t *testing.T) {
	svc, _ := newTestService(t)
	root := t.TempDir()
	writeFile(t, root, "a.c", "int f(void) { return 0; }\n")

	_, err := svc.Run(context.Background(), root)
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesScanned)
	assert.Equal(t, 0, result.FilesIndexed)
	assert.Equal(t, 1, result.FilesSkipped)
}

func TestRunReindexesChangedFile(t *testing.T) {
	svc, repo := newTestService(t)
	root := t.TempDir()
	writeFile(t, root, "a.c", "int f(void) { return 0; }\n")
	_, err := svc.Run(context.Background(), root)
	require.NoError(t, err)

	writeFile(t, root, "a.c", "int g(void) { return 0; }\n")
	result, err := svc.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesIndexed)

	rows, err := repo.Lookup(repository.QueryOpts{Defs: true, LikePattern: "f"})
	require.NoError(t, err)
	assert.Empty(t, rows, "the stale definition for f should have been cleared")

	rows, err = repo.Lookup(repository.QueryOpts{Defs: true, LikePattern: "g"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRunPrunesDeletedFiles(t *testing.T) {
	svc, repo := newTestService(t)
	root := t.TempDir()
	writeFile(t, root, "a.c", "int f(void) { return 0; }\n")
	_, err := svc.Run(context.Background(), root)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "a.c")))

	_, err = svc.Run(context.Background(), root)
	require.NoError(t, err)

	paths, err := repo.KnownPaths()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

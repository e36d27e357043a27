package database

import (
	"testing"
	"time"

	"chunkdex/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(format string, args ...any) {}
func (noopLogger) Info(format string, args ...any)  {}
func (noopLogger) Warn(format string, args ...any)  {}
func (noopLogger) Error(format string, args ...any) {}
func (noopLogger) Fatal(format string, args ...any) {}

func testConfig(t *testing.T, name string) config.DatabaseConfig {
	dir := t.TempDir()
	return config.DatabaseConfig{
		DataDir:         dir,
		DatabaseName:    name,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

func TestManagerInitializeCreatesSchema(t *testing.T) {
	mgr := NewManager(testConfig(t, "test.db"), noopLogger{})
	require.NoError(t, mgr.Initialize())
	defer mgr.Close()

	db := mgr.GetDB()
	require.NotNil(t, db)

	for _, table := range []string{"files", "definitions", "declarations", "references", "migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestManagerBeginTransaction(t *testing.T) {
	mgr := NewManager(testConfig(t, "test.db"), noopLogger{})
	require.NoError(t, mgr.Initialize())
	defer mgr.Close()

	tx, err := mgr.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
}

func TestManagerClose(t *testing.T) {
	mgr := NewManager(testConfig(t, "test-close.db"), noopLogger{})
	require.NoError(t, mgr.Initialize())
	require.NoError(t, mgr.Close())

	assert.Error(t, mgr.GetDB().Ping())
}

func TestManagerInitializeInvalidPath(t *testing.T) {
	cfg := config.DatabaseConfig{
		DataDir:      "/dev/null/not-a-directory",
		DatabaseName: "test.db",
	}
	mgr := NewManager(cfg, noopLogger{})
	assert.Error(t, mgr.Initialize())
}

func TestManagerClearTable(t *testing.T) {
	mgr := NewManager(testConfig(t, "test-clear.db"), noopLogger{})
	require.NoError(t, mgr.Initialize())
	defer mgr.Close()

	db := mgr.GetDB()
	_, err := db.Exec("INSERT INTO files (path, digest, language) VALUES ('a.c', 'd1', 'c')")
	require.NoError(t, err)

	require.NoError(t, mgr.ClearTable("files"))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM files").Scan(&count))
	assert.Equal(t, 0, count)

	assert.Error(t, mgr.ClearTable("migrations"))
}

func TestManagerConcurrentGetDB(t *testing.T) {
	mgr := NewManager(testConfig(t, "test-concurrency.db"), noopLogger{})
	require.NoError(t, mgr.Initialize())
	defer mgr.Close()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			assert.NoError(t, mgr.GetDB().Ping())
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

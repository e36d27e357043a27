// Package database owns the sqlite3 connection pool and schema migrations
// for the persistent index: the files, definitions, declarations, and
// references tables named in the external interfaces.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"chunkdex/internal/config"
	"chunkdex/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

// Manager owns the pooled sqlite3 connection backing the index.
type Manager interface {
	Initialize() error
	Close() error
	GetDB() *sql.DB
	BeginTransaction() (*sql.Tx, error)
	ClearTable(tableName string) error
}

type sqliteManager struct {
	db       *sql.DB
	config   config.DatabaseConfig
	logger   logger.Logger
	mutex    sync.RWMutex
	migrator *Migrator
}

// NewManager builds a Manager from the given pool settings.
func NewManager(cfg config.DatabaseConfig, log logger.Logger) Manager {
	return &sqliteManager{config: cfg, logger: log}
}

// Initialize opens the database file, configures the pool, and runs any
// migrations not yet applied.
func (m *sqliteManager) Initialize() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := os.MkdirAll(m.config.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(m.config.DataDir, m.config.DatabaseName)
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(m.config.MaxOpenConns)
	db.SetMaxIdleConns(m.config.MaxIdleConns)
	db.SetConnMaxLifetime(m.config.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m.db = db
	m.migrator = NewMigrator(db, m.logger)
	if err := m.migrator.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	m.logger.Info("database initialized at %s", dbPath)
	return nil
}

func (m *sqliteManager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *sqliteManager) GetDB() *sql.DB {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.db
}

func (m *sqliteManager) BeginTransaction() (*sql.Tx, error) {
	return m.db.Begin()
}

var clearableTables = map[string]bool{
	"files":        true,
	"definitions":  true,
	"declarations": true,
	"references":   true,
}

// ClearTable deletes every row of tableName and resets its autoincrement
// counter. Restricted to the index's own tables so a caller can't be talked
// into dropping the migrations bookkeeping table by name.
func (m *sqliteManager) ClearTable(tableName string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !clearableTables[tableName] {
		return fmt.Errorf("invalid table name: %s", tableName)
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(fmt.Sprintf(`DELETE FROM "%s"`, tableName)); err != nil {
		return fmt.Errorf("delete from %s: %w", tableName, err)
	}
	if _, err = tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", tableName); err != nil {
		return fmt.Errorf("reset autoincrement for %s: %w", tableName, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	m.logger.Info("table %s cleared", tableName)
	return nil
}

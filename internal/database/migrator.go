package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"chunkdex/internal/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is one versioned schema change, named the way index.cpp's
// on-disk version table is.
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// Migrator applies pending embedded migrations and records which versions
// have already run, so re-opening an existing index file never re-applies a
// migration. Recorded versions that this binary does not embed are not
// checked, so an index file written by another schema is not rejected.
type Migrator struct {
	db     *sql.DB
	logger logger.Logger
}

func NewMigrator(db *sql.DB, log logger.Logger) *Migrator {
	return &Migrator{db: db, logger: log}
}

func (m *Migrator) createMigrationTable() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS migrations (
			version VARCHAR(255) PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := m.db.Exec(ddl); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) appliedVersions() (map[string]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// availableMigrations reads every embedded "<14-digit-timestamp>_<action>_*.sql"
// file, sorted by its version prefix.
func (m *Migrator) availableMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		baseName := strings.TrimSuffix(name, ".sql")
		parts := strings.SplitN(baseName, "_", 3)
		if len(parts) < 3 || len(parts[0]) != 14 {
			continue
		}

		content, err := fs.ReadFile(migrationFS, "migrations/"+name)
		if err != nil {
			return nil, fmt.Errorf("read embedded migration %s: %w", name, err)
		}
		migrations = append(migrations, Migration{
			Version:     parts[0],
			Description: baseName,
			SQL:         string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

func (m *Migrator) apply(migration Migration) error {
	m.logger.Info("applying migration %s", migration.Description)

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(migration.SQL); err != nil {
		return fmt.Errorf("execute migration %s: %w", migration.Version, err)
	}
	if _, err = tx.Exec(
		"INSERT INTO migrations (version, description, applied_at) VALUES (?, ?, ?)",
		migration.Version, migration.Description, time.Now(),
	); err != nil {
		return fmt.Errorf("record migration %s: %w", migration.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", migration.Version, err)
	}
	return nil
}

// AutoMigrate applies every embedded migration not already recorded as
// applied, in version order.
func (m *Migrator) AutoMigrate() error {
	if err := m.createMigrationTable(); err != nil {
		return err
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return err
	}

	available, err := m.availableMigrations()
	if err != nil {
		return err
	}

	for _, migration := range available {
		if applied[migration.Version] {
			continue
		}
		if err := m.apply(migration); err != nil {
			return err
		}
	}

	m.logger.Info("schema up to date (%d migrations applied)", len(available))
	return nil
}

// Package repository is the CRUD layer over the sqlite index: the files,
// definitions, declarations, and references tables named in the external
// interfaces, plus the index_runs table that correlates one indexing pass's
// log lines with a uuid (the "SUPPLEMENTED FEATURES" version-check idea
// applied to run bookkeeping rather than schema bookkeeping).
package repository

import (
	"database/sql"
	"fmt"

	"chunkdex/internal/database"
	"chunkdex/internal/model"
	"chunkdex/pkg/chunk"
)

// tableFor maps an emitted SubKind to the table it belongs in.
func tableFor(sub chunk.SubKind) string {
	switch sub {
	case chunk.SubKindDefinition:
		return "definitions"
	case chunk.SubKindDeclaration:
		return "declarations"
	default:
		return "references"
	}
}

// quoteIdent double-quotes a table name for interpolation into dynamic SQL.
// "references" is a SQL keyword (and is declared quoted in the schema
// migration); quoting every dynamically-built table name here, not just
// that one, keeps the three tables interchangeable in the code below.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

// IndexRepository persists analysis results and answers lookups against
// them. It owns no connection of its own: it holds the shared
// database.Manager it was built with. No transaction spans more than one
// of its method calls.
type IndexRepository struct {
	db database.Manager
}

// New builds an IndexRepository over an already-initialized database.Manager.
func New(db database.Manager) *IndexRepository {
	return &IndexRepository{db: db}
}

// UpsertFile records path's current digest and language, returning its
// file_id. An existing row for path is updated in place so old
// definitions/declarations/references (which cascade-delete via the
// foreign key) are cleared before the fresh batch is inserted.
func (r *IndexRepository) UpsertFile(path, digest, language string) (int64, error) {
	tx, err := r.db.BeginTransaction()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var fileID int64
	err = tx.QueryRow(`SELECT id FROM files WHERE path = ?`, path).Scan(&fileID)
	switch {
	case err == sql.ErrNoRows:
		res, insErr := tx.Exec(`INSERT INTO files (path, digest, language) VALUES (?, ?, ?)`, path, digest, language)
		if insErr != nil {
			err = insErr
			return 0, fmt.Errorf("insert file: %w", err)
		}
		fileID, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("last insert id: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("query file: %w", err)
	default:
		if _, err = tx.Exec(`UPDATE files SET digest = ?, language = ?, indexed_at = CURRENT_TIMESTAMP WHERE id = ?`, digest, language, fileID); err != nil {
			return 0, fmt.Errorf("update file: %w", err)
		}
		for _, table := range [...]string{"definitions", "declarations", "references"} {
			if _, err = tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE file_id = ?`, quoteIdent(table)), fileID); err != nil {
				return 0, fmt.Errorf("clear %s: %w", table, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return fileID, nil
}

// Digest returns the last-recorded digest for path, and false if path has
// never been indexed.
func (r *IndexRepository) Digest(path string) (string, bool, error) {
	var digest string
	err := r.db.GetDB().QueryRow(`SELECT digest FROM files WHERE path = ?`, path).Scan(&digest)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return digest, true, nil
}

// InsertRecords writes every emitted record for fileID into its table,
// batched in one transaction. Records are grouped by destination table
// (§3.3's id_sub_kind decides the table) purely by looping once; sqlite's
// per-statement overhead dominates at this scale, not the grouping.
func (r *IndexRepository) InsertRecords(fileID int64, records []chunk.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTransaction()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmts := make(map[string]*sql.Stmt, 3)
	for _, table := range [...]string{"definitions", "declarations", "references"} {
		stmt, prepErr := tx.Prepare(fmt.Sprintf(
			`INSERT INTO %s (file_id, line, column, scope, kind, sub_kind, name) VALUES (?, ?, ?, ?, ?, ?, ?)`, quoteIdent(table)))
		if prepErr != nil {
			err = prepErr
			return fmt.Errorf("prepare %s: %w", table, err)
		}
		defer stmt.Close()
		stmts[table] = stmt
	}

	for _, rec := range records {
		table := tableFor(rec.SubKind)
		if _, err = stmts[table].Exec(fileID, rec.Line, rec.Column, rec.Scope, rec.IDKind.String(), rec.SubKind.String(), rec.Name); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RemoveFile deletes path's file row (and, via ON DELETE CASCADE, every
// definition/declaration/reference row that referenced it) — used when the
// scanner finds a previously-indexed file no longer exists.
func (r *IndexRepository) RemoveFile(path string) error {
	_, err := r.db.GetDB().Exec(`DELETE FROM files WHERE path = ?`, path)
	return err
}

// KnownPaths returns every path currently recorded in the files table, so
// the driver can detect deletions by diffing against the current scan.
func (r *IndexRepository) KnownPaths() ([]string, error) {
	rows, err := r.db.GetDB().Query(`SELECT path FROM files`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// QueryOpts restricts a lookup to a subset of tables and constrains matches
// by a SQL LIKE pattern already translated from the caller's glob.
type QueryOpts struct {
	Defs, Decls, Refs bool
	LikePattern       string
}

// Lookup returns every stored chunk row matching opts across the requested
// tables, joined with the owning file's path.
func (r *IndexRepository) Lookup(opts QueryOpts) ([]model.MatchRow, error) {
	var tables []string
	if opts.Defs {
		tables = append(tables, "definitions")
	}
	if opts.Decls {
		tables = append(tables, "declarations")
	}
	if opts.Refs {
		tables = append(tables, "references")
	}
	if len(tables) == 0 {
		tables = []string{"definitions", "declarations", "references"}
	}

	var rows []model.MatchRow
	for _, table := range tables {
		q := fmt.Sprintf(
			`SELECT f.path, t.line, t.column, t.scope, t.kind, t.sub_kind, t.name
			 FROM %s t JOIN files f ON f.id = t.file_id
			 WHERE t.name LIKE ? ESCAPE '\'
			 ORDER BY f.path, t.line, t.column`, quoteIdent(table))
		res, err := r.db.GetDB().Query(q, opts.LikePattern)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", table, err)
		}
		for res.Next() {
			var m model.MatchRow
			if err := res.Scan(&m.File, &m.Line, &m.Column, &m.Scope, &m.Kind, &m.SubKind, &m.Name); err != nil {
				res.Close()
				return nil, fmt.Errorf("scan %s: %w", table, err)
			}
			rows = append(rows, m)
		}
		if err := res.Err(); err != nil {
			res.Close()
			return nil, err
		}
		res.Close()
	}
	return rows, nil
}

// RecordRun inserts one row into index_runs, correlating a run id with the
// files it touched and its outcome — the uuid-tagged bookkeeping the
// domain-stack table names.
func (r *IndexRepository) RecordRun(runID string, filesScanned, filesIndexed, filesSkipped int) error {
	_, err := r.db.GetDB().Exec(
		`INSERT INTO index_runs (run_id, files_scanned, files_indexed, files_skipped) VALUES (?, ?, ?, ?)`,
		runID, filesScanned, filesIndexed, filesSkipped)
	return err
}

// Package model holds the persistent row shapes the database and repository
// packages read and write, one struct per table named in the external
// interfaces: files, definitions, declarations, references.
package model

import "time"

// File is a row of the files table: one per indexed source file, keyed by
// its content digest so an unchanged file can be recognised without
// re-running the pipeline.
type File struct {
	ID        int64     `db:"id"`
	Path      string    `db:"path"`
	Digest    string    `db:"digest"`
	Language  string    `db:"language"`
	IndexedAt time.Time `db:"indexed_at"`
}

// Chunk is a row shared by the definitions, declarations, and references
// tables — the three differ only in which table they live in, not in shape.
type Chunk struct {
	ID      int64  `db:"id"`
	FileID  int64  `db:"file_id"`
	Line    int    `db:"line"`
	Column  int    `db:"column"`
	Scope   string `db:"scope"`
	Kind    string `db:"kind"`
	SubKind string `db:"sub_kind"`
	Name    string `db:"name"`
}

// IndexRun is one invocation of the driver over a set of files, identified
// by a UUID for log correlation across a long scan.
type IndexRun struct {
	ID           string    `db:"run_id"`
	StartedAt    time.Time `db:"started_at"`
	FilesScanned int       `db:"files_scanned"`
	FilesIndexed int       `db:"files_indexed"`
	FilesSkipped int       `db:"files_skipped"`
}

// MatchRow is one row of a lookup query's result, joined against the owning
// file's path so a caller never needs a second query to resolve file_id.
type MatchRow struct {
	File    string
	Line    int
	Column  int
	Scope   string
	Kind    string
	SubKind string
	Name    string
}

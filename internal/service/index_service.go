// Package service orchestrates one indexing run: scan a root, skip files
// whose digest is unchanged, run the core pipeline over everything else,
// and persist the results — the driver-level glue the core pipeline package
// never touches directly (§5's "no callbacks into user code" boundary).
package service

import (
	"context"
	"fmt"

	"chunkdex/internal/digestcache"
	"chunkdex/internal/logger"
	"chunkdex/internal/metrics"
	"chunkdex/internal/repository"
	"chunkdex/internal/scanner"
	"chunkdex/pkg/chunk"
	"chunkdex/pkg/chunk/pipeline"

	"github.com/google/uuid"
)

// IndexService ties the scanner, digest cache, core pipeline, and
// repository together into a single Run call.
type IndexService struct {
	scanner  *scanner.Scanner
	digest   *digestcache.Cache
	repo     *repository.IndexRepository
	metrics  *metrics.Recorder
	log      logger.Logger
	tabWidth int
}

// New builds an IndexService from its already-constructed collaborators.
// metrics may be nil, in which case instrumentation is a no-op. tabWidth is
// forwarded to pipeline.Analyze for column accounting; 0 falls back to the
// lexer's own default.
func New(sc *scanner.Scanner, dc *digestcache.Cache, repo *repository.IndexRepository, mr *metrics.Recorder, log logger.Logger, tabWidth int) *IndexService {
	return &IndexService{scanner: sc, digest: dc, repo: repo, metrics: mr, log: log, tabWidth: tabWidth}
}

// RunResult summarizes one indexing pass, matching the row shape stored in
// index_runs.
type RunResult struct {
	RunID        string
	FilesScanned int
	FilesIndexed int
	FilesSkipped int
}

// Run walks root, indexes every changed file, and records the run. A
// per-file fatal error (frame overflow, unreadable buffer) is logged and
// the file is skipped; it never aborts the whole run.
func (s *IndexService) Run(ctx context.Context, root string) (RunResult, error) {
	runID := uuid.NewString()
	result := RunResult{RunID: runID}

	seen := make(map[string]bool)

	walkErr := s.scanner.Walk(root, func(f scanner.File) error {
		result.FilesScanned++
		seen[f.RelPath] = true
		if s.metrics != nil {
			s.metrics.FilesScanned(ctx, 1)
		}

		if s.digest != nil && s.digest.Unchanged(f.RelPath, f.Digest) {
			result.FilesSkipped++
			if s.metrics != nil {
				s.metrics.FilesSkipped(ctx, 1)
			}
			return nil
		}
		if stored, ok, err := s.repo.Digest(f.RelPath); err == nil && ok && stored == f.Digest {
			result.FilesSkipped++
			if s.digest != nil {
				_ = s.digest.Put(f.RelPath, f.Digest)
			}
			if s.metrics != nil {
				s.metrics.FilesSkipped(ctx, 1)
			}
			return nil
		}

		if err := s.indexFile(ctx, f); err != nil {
			s.log.Error("skipping %s: %v", f.RelPath, err)
			return nil
		}

		result.FilesIndexed++
		if s.metrics != nil {
			s.metrics.FilesIndexed(ctx, 1)
		}
		if s.digest != nil {
			_ = s.digest.Put(f.RelPath, f.Digest)
		}
		return nil
	})
	if walkErr != nil {
		return result, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	if err := s.pruneDeleted(seen); err != nil {
		s.log.Warn("pruning deleted files: %v", err)
	}

	if err := s.repo.RecordRun(runID, result.FilesScanned, result.FilesIndexed, result.FilesSkipped); err != nil {
		s.log.Warn("recording run %s: %v", runID, err)
	}
	s.log.Info("run %s: scanned=%d indexed=%d skipped=%d", runID, result.FilesScanned, result.FilesIndexed, result.FilesSkipped)

	return result, nil
}

func (s *IndexService) indexFile(ctx context.Context, f scanner.File) error {
	res, err := pipeline.Analyze(f.RelPath, f.Bytes, f.Language, s.tabWidth)
	for _, w := range res.Warnings {
		s.log.Warn("%s", logger.WithLocation(f.RelPath, w.Line, w.Column, "[%s] %s", w.Stage, w.Message))
		if s.metrics != nil {
			s.metrics.Warning(ctx, w.Stage)
		}
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.FrameOverflow(ctx)
		}
		return err
	}

	fileID, err := s.repo.UpsertFile(f.RelPath, f.Digest, f.Language.Name())
	if err != nil {
		return fmt.Errorf("upsert file: %w", err)
	}
	if err := s.repo.InsertRecords(fileID, res.Records); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}

	if s.metrics != nil {
		byKind := make(map[chunk.IDKind]int64, len(res.Records))
		for _, r := range res.Records {
			byKind[r.IDKind]++
		}
		for kind, n := range byKind {
			s.metrics.RecordsEmitted(ctx, kind.String(), n)
		}
	}
	return nil
}

// pruneDeleted removes files previously indexed but no longer present in
// the current scan (seen), keeping the index from accumulating stale rows
// for files deleted from disk between runs.
func (s *IndexService) pruneDeleted(seen map[string]bool) error {
	known, err := s.repo.KnownPaths()
	if err != nil {
		return err
	}
	for _, path := range known {
		if seen[path] {
			continue
		}
		if err := s.repo.RemoveFile(path); err != nil {
			return err
		}
		if s.digest != nil {
			_ = s.digest.Delete(path)
		}
	}
	return nil
}

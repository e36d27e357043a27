// Package scanner walks a codebase root, honoring .gitignore plus the
// configured folder/file patterns, and reports each candidate source file's
// path, sha256 content digest, and inferred language mask — the driver's
// file-list-plus-change-detection input, kept separate from the core
// pipeline per the concurrency model's collaborator boundary.
package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"chunkdex/internal/config"
	"chunkdex/pkg/chunk/lang"

	gitignore "github.com/sabhiram/go-gitignore"
)

// File is one discovered source file: its path, byte content, content
// digest, and inferred language mask.
type File struct {
	Path     string
	RelPath  string
	Bytes    []byte
	Digest   string
	Language lang.Mask
}

// Scanner walks a root directory applying ignore/include rules from cfg.
type Scanner struct {
	cfg config.ScanConfig
}

// New builds a Scanner from a ScanConfig.
func New(cfg config.ScanConfig) *Scanner {
	return &Scanner{cfg: cfg}
}

// Digest returns the hex sha256 digest of b, the content-digest scheme the
// files table's digest column and the digest cache both key on.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Walk visits every candidate file under root, invoking fn with its digest
// and inferred language already computed. It never returns partial results
// on a per-file read error — that file is skipped and the walk continues,
// matching the fatal-to-file (not fatal-to-run) error tier.
func (s *Scanner) Walk(root string, fn func(File) error) error {
	ignore := s.buildIgnore(root)
	visited := 0

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if s.cfg.MaxFileCount > 0 && visited >= s.cfg.MaxFileCount {
			return fs.SkipAll
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if relPath == "." {
			return nil
		}

		if info.IsDir() {
			if ignore.MatchesPath(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if ignore.MatchesPath(relPath) {
			return nil
		}
		if !s.included(relPath) {
			return nil
		}
		if s.cfg.MaxFileSizeKB > 0 && info.Size() > int64(s.cfg.MaxFileSizeKB)*1024 {
			return nil
		}

		mask, ok := lang.ByExtension(relPath)
		if !ok {
			return nil
		}

		b, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}

		visited++
		return fn(File{
			Path:     path,
			RelPath:  filepath.ToSlash(relPath),
			Bytes:    b,
			Digest:   Digest(b),
			Language: mask,
		})
	})
}

func (s *Scanner) buildIgnore(root string) *gitignore.GitIgnore {
	patterns := append([]string{}, s.cfg.FolderIgnorePatterns...)

	if content, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimRight(line, "\r")
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, line)
		}
	}

	ignore := gitignore.CompileIgnoreLines(patterns...)
	if ignore == nil {
		ignore = gitignore.CompileIgnoreLines()
	}
	return ignore
}

func (s *Scanner) included(relPath string) bool {
	if len(s.cfg.FileIncludePatterns) == 0 {
		return true
	}
	name := filepath.Base(relPath)
	for _, pat := range s.cfg.FileIncludePatterns {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}

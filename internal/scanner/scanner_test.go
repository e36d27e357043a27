package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"chunkdex/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDigestIsStableSHA256Hex(t *testing.T) {
	d1 := Digest([]byte("int x;"))
	d2 := Digest([]byte("int x;"))
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
	assert.NotEqual(t, d1, Digest([]byte("int y;")))
}

func TestWalkFindsSourceFilesAndSkipsIgnored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.c", "int main(void) { return 0; }\n")
	writeFile(t, root, "README.md", "not source\n")
	writeFile(t, root, "vendor/dep.c", "int dep(void);\n")
	writeFile(t, root, ".gitignore", "vendor/\n")

	s := New(config.ScanConfig{
		FolderIgnorePatterns: config.DefaultFolderIgnorePatterns,
		FileIncludePatterns:  config.DefaultFileIncludePatterns,
	})

	var seen []string
	require.NoError(t, s.Walk(root, func(f File) error {
		seen = append(seen, f.RelPath)
		return nil
	}))
	sort.Strings(seen)
	assert.Equal(t, []string{"main.c"}, seen)
}

func TestWalkRespectsMaxFileSizeKB(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, 4096)
	for i := range big {
		big[i] = 'a'
	}
	writeFile(t, root, "big.c", string(big))
	writeFile(t, root, "small.c", "int x;\n")

	s := New(config.ScanConfig{
		MaxFileSizeKB:       1,
		FileIncludePatterns: config.DefaultFileIncludePatterns,
	})

	var seen []string
	require.NoError(t, s.Walk(root, func(f File) error {
		seen = append(seen, f.RelPath)
		return nil
	}))
	assert.Equal(t, []string{"small.c"}, seen)
}

func TestWalkRespectsMaxFileCount(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.c", "int a;\n")
	writeFile(t, root, "b.c", "int b;\n")
	writeFile(t, root, "c.c", "int c;\n")

	s := New(config.ScanConfig{
		MaxFileCount:        2,
		FileIncludePatterns: config.DefaultFileIncludePatterns,
	})

	var seen []string
	require.NoError(t, s.Walk(root, func(f File) error {
		seen = append(seen, f.RelPath)
		return nil
	}))
	assert.Len(t, seen, 2)
}

func TestWalkInfersLanguageFromExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.cpp", "int main() { return 0; }\n")

	s := New(config.ScanConfig{FileIncludePatterns: config.DefaultFileIncludePatterns})

	var got File
	require.NoError(t, s.Walk(root, func(f File) error {
		got = f
		return nil
	}))
	assert.Equal(t, "main.cpp", got.RelPath)
	assert.NotEqual(t, "", got.Digest)
}

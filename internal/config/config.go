// Package config loads the application configuration from a TOML file,
// following the teacher's ClientConfig shape but reworked around this
// indexer's own concerns: scan ignore-patterns, database pool settings, the
// HTTP/metrics listen address, tokenizer tab width, and log level.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type ScanConfig struct {
	MaxFileSizeKB        int      `toml:"max_file_size_kb"`
	MaxFileCount         int      `toml:"max_file_count"`
	FolderIgnorePatterns []string `toml:"folder_ignore_patterns"`
	FileIncludePatterns  []string `toml:"file_include_patterns"`
}

type DatabaseConfig struct {
	DataDir         string        `toml:"data_dir"`
	DatabaseName    string        `toml:"database_name"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type DigestCacheConfig struct {
	Dir string `toml:"dir"`
}

type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
}

type LogConfig struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}

type TokenizerConfig struct {
	TabWidth int `toml:"tab_width"`
}

// Config is the complete application configuration, unmarshaled from a
// single TOML document.
type Config struct {
	Scan      ScanConfig        `toml:"scan"`
	Database  DatabaseConfig    `toml:"database"`
	Digest    DigestCacheConfig `toml:"digest_cache"`
	Server    ServerConfig      `toml:"server"`
	Log       LogConfig         `toml:"log"`
	Tokenizer TokenizerConfig   `toml:"tokenizer"`
}

// DefaultFolderIgnorePatterns mirrors the teacher's DefaultFolderIgnorePatterns.
var DefaultFolderIgnorePatterns = []string{
	".*",
	"logs/", "temp/", "tmp/", "node_modules/",
	"bin/", "dist/", "build/", "out/",
	"__pycache__/", "venv/", "target/", "vendor/",
}

// DefaultFileIncludePatterns restricts scanning to the C-family source
// extensions the lexer understands, the analogue of the teacher's
// DefaultFileIncludePatterns which instead listed doc formats.
var DefaultFileIncludePatterns = []string{
	"*.c", "*.h", "*.cpp", "*.cxx", "*.cc", "*.hpp", "*.hh",
	"*.m", "*.mm", "*.java", "*.cs", "*.d", "*.p", "*.pawn", "*.vala",
	"*.js", "*.as", "*.es",
}

// Default returns the configuration used when no TOML file is supplied.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			MaxFileSizeKB:        10240,
			MaxFileCount:         100000,
			FolderIgnorePatterns: DefaultFolderIgnorePatterns,
			FileIncludePatterns:  DefaultFileIncludePatterns,
		},
		Database: DatabaseConfig{
			DataDir:         ".chunkdex",
			DatabaseName:    "chunkdex.db",
			MaxOpenConns:    5,
			MaxIdleConns:    3,
			ConnMaxLifetime: 15 * time.Minute,
		},
		Digest: DigestCacheConfig{Dir: ".chunkdex/digest"},
		Server: ServerConfig{Enabled: false, Address: "localhost:8080"},
		Log:    LogConfig{Dir: ".chunkdex/logs", Level: "info"},
		Tokenizer: TokenizerConfig{
			TabWidth: 8,
		},
	}
}

// Load reads and parses a TOML config file, overlaying it on Default() so a
// partial file only needs to name what it overrides: it decodes into a copy
// seeded with the defaults, present keys overwrite them and absent keys
// leave them as they are.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

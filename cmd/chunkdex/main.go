// Command chunkdex is the CLI driver collaborator (spec.md §6): index mode
// scans a workspace and populates the persistent catalog, lookup mode
// answers a wildcard identifier query against it, and serve mode exposes
// the same lookup surface over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"chunkdex/internal/config"
	"chunkdex/internal/digestcache"
	"chunkdex/internal/handler"
	"chunkdex/internal/logger"
	"chunkdex/internal/metrics"
	"chunkdex/internal/query"
	"chunkdex/internal/repository"
	"chunkdex/internal/scanner"
	"chunkdex/internal/server"
	"chunkdex/internal/service"

	"chunkdex/internal/database"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "index":
		runIndex(os.Args[2:])
	case "lookup":
		runLookup(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `chunkdex — fuzzy C-family source indexer

Usage:
  chunkdex index  [--config file.toml] [--root path]
  chunkdex lookup [--config file.toml] --id NAME [--defs] [--decls] [--refs]
  chunkdex serve  [--config file.toml] [--addr host:port]`)
}

// loadConfig reads the value a prior fs.Parse bound to --config (registered
// by registerConfigFlag before parsing) and loads it, or returns defaults
// if the flag was never set.
func loadConfig(configPath *string) config.Config {
	if *configPath == "" {
		return config.Default()
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// registerConfigFlag must be called before fs.Parse so --config is
// recognized alongside the subcommand's own flags.
func registerConfigFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "path to a TOML configuration file")
}

// bootstrap wires the collaborator layer shared by every subcommand:
// logger, sqlite manager (with migrations applied), digest cache, and the
// repository built on top of them.
func bootstrap(cfg config.Config) (logger.Logger, database.Manager, *digestcache.Cache, *repository.IndexRepository) {
	if err := os.MkdirAll(cfg.Log.Dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create log dir: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Dir, cfg.Log.Level)

	dbManager := database.NewManager(cfg.Database, log)
	if err := dbManager.Initialize(); err != nil {
		log.Fatal("initialize database: %v", err)
	}

	digestDir := cfg.Digest.Dir
	if digestDir == "" {
		digestDir = filepath.Join(cfg.Database.DataDir, "digest")
	}
	if err := os.MkdirAll(digestDir, 0o755); err != nil {
		log.Fatal("create digest cache dir: %v", err)
	}
	cache, err := digestcache.Open(digestDir)
	if err != nil {
		log.Fatal("open digest cache: %v", err)
	}

	repo := repository.New(dbManager)
	return log, dbManager, cache, repo
}

func runIndex(args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	root := fs.String("root", ".", "workspace root to scan and index")
	configPath := registerConfigFlag(fs)
	fs.Parse(args)
	cfg := loadConfig(configPath)

	log, dbManager, cache, repo := bootstrap(cfg)
	defer dbManager.Close()
	defer cache.Close()

	mr, err := metrics.New()
	if err != nil {
		log.Warn("metrics disabled: %v", err)
		mr = nil
	}

	sc := scanner.New(cfg.Scan)
	svc := service.New(sc, cache, repo, mr, log, cfg.Tokenizer.TabWidth)

	absRoot, err := filepath.Abs(*root)
	if err != nil {
		log.Fatal("resolve root %q: %v", *root, err)
	}

	result, err := svc.Run(context.Background(), absRoot)
	if err != nil {
		log.Fatal("index run failed: %v", err)
	}

	fmt.Printf("run %s: scanned=%d indexed=%d skipped=%d\n",
		result.RunID, result.FilesScanned, result.FilesIndexed, result.FilesSkipped)
}

func runLookup(args []string) {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	id := fs.String("id", "", "identifier pattern to search for (supports * and ?)")
	defs := fs.Bool("defs", false, "include definitions")
	decls := fs.Bool("decls", false, "include declarations")
	refs := fs.Bool("refs", false, "include references")
	configPath := registerConfigFlag(fs)
	fs.Parse(args)
	cfg := loadConfig(configPath)

	if *id == "" {
		fmt.Fprintln(os.Stderr, "lookup requires --id")
		os.Exit(2)
	}

	log, dbManager, cache, repo := bootstrap(cfg)
	defer dbManager.Close()
	defer cache.Close()

	filter := query.Filter{Defs: *defs, Decls: *decls, Refs: *refs}
	rows, err := repo.Lookup(repository.QueryOpts{
		Defs:        filter.Defs || !filter.Any(),
		Decls:       filter.Decls || !filter.Any(),
		Refs:        filter.Refs || !filter.Any(),
		LikePattern: query.LikePattern(*id),
	})
	if err != nil {
		log.Fatal("lookup failed: %v", err)
	}

	for _, m := range rows {
		fmt.Printf("%s:%d:%d %s %s %s %s\n", m.File, m.Line, m.Column, m.Scope, m.Kind, m.SubKind, m.Name)
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "HTTP listen address, overrides config's server.address")
	configPath := registerConfigFlag(fs)
	fs.Parse(args)
	cfg := loadConfig(configPath)

	listenAddr := cfg.Server.Address
	if *addr != "" {
		listenAddr = *addr
	}

	log, dbManager, cache, repo := bootstrap(cfg)
	defer dbManager.Close()
	defer cache.Close()

	mr, err := metrics.New()
	if err != nil {
		log.Warn("metrics disabled: %v", err)
		mr = nil
	}

	sc := scanner.New(cfg.Scan)
	svc := service.New(sc, cache, repo, mr, log, cfg.Tokenizer.TabWidth)
	h := handler.New(repo, svc, log)
	srv := server.New(h, mr, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(listenAddr) }()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server error: %v", err)
		}
	case <-signals:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown: %v", err)
		}
	}
}

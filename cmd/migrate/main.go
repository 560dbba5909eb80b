// Command migrate manages the repairpos database schema.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/repairpos/backend/internal/infrastructure/config"
	"github.com/repairpos/backend/internal/infrastructure/logger"
	"github.com/repairpos/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

func main() {
	var (
		path     string
		logLevel string
	)
	flag.StringVar(&path, "path", "", "migrations directory (default: database.migrations_path, falling back to the embedded set)")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout", TimeFormat: "2006-01-02 15:04:05"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if path == "" {
		path = cfg.Database.MigrationsPath
	}

	if err := run(args, path, cfg, log); err != nil {
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(args []string, path string, cfg *config.Config, log *zap.Logger) error {
	switch args[0] {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		f, err := migration.Create(path, args[1], description, time.Now())
		if err != nil {
			return err
		}
		log.Info("Migration created", zap.Uint("version", f.Version), zap.String("up", f.UpPath), zap.String("down", f.DownPath))
		return nil
	case "list":
		files, err := migration.List(path)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("%06d  %s\n", f.Version, f.Name)
		}
		return nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, path, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("version must not be negative")
		}
		return m.GoTo(uint(n))
	case "force":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(n)
	case "version":
		status, err := m.Status()
		if err != nil {
			return err
		}
		log.Info("Current schema version", zap.Uint("version", status.Version), zap.Bool("dirty", status.Dirty), zap.String("source", m.Source()))
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: migrate %s <n>", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[1])
	}
	return n, nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Repair shop POS schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    apply all pending migrations
  down                  roll back every migration
  steps <n>             apply n migrations, negative n rolls back
  goto <version>        migrate to a version
  version               show the current version
  force <version>       mark a version as applied and clear the dirty flag
  create <name> [desc]  write a new numbered migration pair
  list                  list migrations on disk

Flags:
  -path string          migrations directory
  -log-level string     debug, info, warn or error

Database settings come from config.toml and REPAIRPOS_DATABASE_* variables.
`)
}

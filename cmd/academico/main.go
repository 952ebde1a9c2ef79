// main is the entry point of the academico command-line tool.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file, environment, or defaults)
//  2. Initialise the logger
//  3. Open the flat-file store and seed it on first run
//  4. Dispatch the subcommand
//
// RUNNING:
//
//	go run ./cmd/academico --config=config/local.yaml list
//	go run ./cmd/academico login -email admin@admin.com -password admin
//
// Every subcommand is a single call into the store; there are no
// interactive menus.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aanand-mishra/academico/internal/config"
	"github.com/aanand-mishra/academico/internal/storage"
	"github.com/aanand-mishra/academico/internal/storage/flatfile"
	"github.com/aanand-mishra/academico/internal/storage/sqlite"
)

func main() {
	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	store, err := flatfile.New(cfg, flatfile.WithLogger(log))
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if _, err := store.EnsureSeeded(); err != nil {
		log.Error("failed to seed storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := &cli{
		store: store,
		out:   os.Stdout,
		openReporter: func() (storage.Reporter, error) {
			return sqlite.New(cfg)
		},
	}

	if err := app.run(flag.Args()); err != nil {
		log.Error("command failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
// Logs go to stderr so command output on stdout stays clean.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}

// Package main is the entry point for the chords2maschine API server
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/james-see/chords2maschine/pkg/api"
	"github.com/james-see/chords2maschine/pkg/bundle"
	"github.com/james-see/chords2maschine/pkg/config"
	"github.com/james-see/chords2maschine/pkg/logging"
	"github.com/james-see/chords2maschine/pkg/store"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "Server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid logging config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, *dbPath)
	if err != nil {
		slog.Error("failed to open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	mgr := bundle.NewManager(ctx, db, bundle.WithLogger(logger))
	srv := api.NewServer(mgr, db, api.WithLogger(logger), api.WithReleaseMode(cfg.IsProduction()))

	fmt.Printf("Starting chords2maschine API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := srv.StartServer(ctx, *port); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

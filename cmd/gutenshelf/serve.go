package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/abdulachik/gutenshelf/internal/config"
	"github.com/abdulachik/gutenshelf/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the books API over HTTP",
	Long: `Serve a JSON API over the local cache:

  GET  /api/books                 cached books, most recent first
  GET  /api/books/{id}            fetch (or read from cache) one book
  POST /api/books/{id}/analysis   literary analysis, provider JSON as is
  GET  /healthz                   catalog and analysis provider health

The analysis key stays on the server.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, (*config.Config).ValidateForServe)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := server.Config{Library: a.Library}
	if a.Analyzer != nil {
		cfg.Analyzer = a.Analyzer
	} else {
		slog.Warn("analysis disabled, set ANALYSIS_API_KEY to enable it")
	}

	slog.Info("starting gutenshelf API",
		"addr", a.Config.ListenAddr,
		"database", a.Config.DatabasePath,
		"books", len(a.Library.Index(ctx)),
	)

	if err := server.New(cfg).Run(ctx, a.Config.ListenAddr); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	slog.Info("shutting down...")
	return nil
}

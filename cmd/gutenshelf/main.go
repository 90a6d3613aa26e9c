package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/abdulachik/gutenshelf/internal/app"
	"github.com/abdulachik/gutenshelf/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gutenshelf",
	Short: "Fetch, cache and analyze public-domain books",
	Long: `gutenshelf fetches book text and metadata from Project Gutenberg,
keeps every viewed book in a local cache, and can ask a language model
for a short literary analysis.`,
	SilenceUsage: true,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// openApp loads and validates configuration and builds the application
// context. Callers must Close it.
func openApp(ctx context.Context, validate func(*config.Config) error) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return app.New(ctx, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

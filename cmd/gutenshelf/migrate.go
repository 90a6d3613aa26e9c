package main

import (
	"log/slog"

	"github.com/abdulachik/gutenshelf/internal/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the local cache database",
	Long:  `Run all pending migrations on the SQLite file that holds the book cache.`,
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	slog.Info("migrations completed successfully", "path", a.Config.DatabasePath)
	return nil
}

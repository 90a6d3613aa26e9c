package main

import (
	"github.com/abdulachik/gutenshelf/internal/config"
	"github.com/spf13/cobra"
)

var fetchMetadata bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <id>",
	Short: "Fetch a book into the local cache",
	Long: `Fetch a book by its Project Gutenberg id. A cached book is served
from the local cache without touching the network; otherwise its text and
metadata page are downloaded and stored.

Examples:
  gutenshelf fetch 84
  gutenshelf fetch 1342 --metadata`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVarP(&fetchMetadata, "metadata", "m", false, "Print all metadata fields")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx, (*config.Config).ValidateForFetch)
	if err != nil {
		return err
	}
	defer a.Close()

	record, err := a.Library.Fetch(ctx, args[0])
	if err != nil {
		return err
	}

	printRecord(cmd.OutOrStdout(), record, fetchMetadata)
	return nil
}

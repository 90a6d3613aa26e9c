package main

import (
	"fmt"

	"github.com/abdulachik/gutenshelf/internal/config"
	"github.com/spf13/cobra"
)

var (
	showContent  bool
	showMetadata bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a cached book without fetching it",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showContent, "content", false, "Print the full book text")
	showCmd.Flags().BoolVarP(&showMetadata, "metadata", "m", false, "Print all metadata fields")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	record, ok := a.Library.Cached(ctx, args[0])
	if !ok {
		return fmt.Errorf("book %s is not cached (run 'gutenshelf fetch %s' first)", args[0], args[0])
	}

	out := cmd.OutOrStdout()
	if showContent {
		if !record.HasContent() {
			return fmt.Errorf("book %s has no cached text", args[0])
		}
		fmt.Fprintln(out, *record.Content)
		return nil
	}

	printRecord(out, record, showMetadata)
	if record.HasContent() {
		fmt.Fprintf(out, "\n%s\n", preview(*record.Content, 400))
	}
	return nil
}

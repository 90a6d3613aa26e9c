package main

import (
	"fmt"
	"log/slog"

	"github.com/abdulachik/gutenshelf/internal/config"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Display how many books are cached and how much space they take.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.Cache.Stats(ctx)
	if err != nil {
		return fmt.Errorf("cache stats: %w", err)
	}

	withText := 0
	for _, b := range a.Library.List(ctx) {
		if record, ok := a.Cache.LoadRecord(ctx, b.ID); ok && record.HasContent() {
			withText++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== gutenshelf cache ===")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Database: %s\n", a.Config.DatabasePath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Books:")
	fmt.Fprintf(out, "  Indexed: %d\n", stats.Books)
	fmt.Fprintf(out, "  With text: %d\n", withText)
	fmt.Fprintf(out, "  Without text: %d\n", stats.Books-withText)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Storage:")
	fmt.Fprintf(out, "  Entries: %d\n", stats.Entries)
	fmt.Fprintf(out, "  Size: %.1f KiB\n", float64(stats.Bytes)/1024)
	fmt.Fprintln(out)

	if a.Books != nil {
		vs := a.Books.Stats()
		fmt.Fprintln(out, "VecLite:")
		fmt.Fprintf(out, "  Path: %s\n", a.Config.VecLitePath)
		fmt.Fprintf(out, "  Documents: %d\n", vs.Count)
		fmt.Fprintf(out, "  Dimension: %d\n", vs.Dimension)
		fmt.Fprintf(out, "  Distance: %s\n", vs.DistanceType)
		fmt.Fprintln(out)
	} else if a.Config.VecLitePath != "" {
		slog.Warn("search index configured but not available", "path", a.Config.VecLitePath)
	}

	return nil
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/abdulachik/gutenshelf/internal/config"
	"github.com/spf13/cobra"
)

var analyzeRaw bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <id>",
	Short: "Ask a language model for a literary analysis of a book",
	Long: `Fetch the book (from the cache when possible) and send up to its first
25,000 characters to the configured chat completion provider for a
sentiment, character, language and plot analysis.

Requires ANALYSIS_API_KEY (or GROQ_API_KEY).

Examples:
  gutenshelf analyze 84
  gutenshelf analyze 84 --raw   # print the provider's JSON response`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeRaw, "raw", false, "Print the provider response as received")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx, (*config.Config).ValidateForAnalysis)
	if err != nil {
		return err
	}
	defer a.Close()

	record, err := a.Library.Fetch(ctx, args[0])
	if err != nil {
		return err
	}

	slog.Info("requesting analysis", "id", record.ID, "title", record.Title, "has_content", record.HasContent())

	result, err := a.Analyzer.Analyze(ctx, record)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", record.ID, err)
	}

	out := cmd.OutOrStdout()
	if text := result.Text(); !analyzeRaw && text != "" {
		fmt.Fprintln(out, text)
		return nil
	}
	fmt.Fprintln(out, string(result.Raw))
	return nil
}

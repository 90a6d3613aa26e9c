package main

import (
	"fmt"
	"strings"

	"github.com/abdulachik/gutenshelf/internal/config"
	"github.com/abdulachik/gutenshelf/internal/vectorstore"
	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchText  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search fetched books by title, author and subject",
	Long: `Search the VecLite index of fetched books. Books are indexed when they
are first fetched while VECLITE_PATH is set.

Uses the embedding provider configured in veclite.yaml. --text switches
to BM25 keyword search.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 5, "Maximum number of results")
	searchCmd.Flags().BoolVar(&searchText, "text", false, "Use keyword search instead of vector search")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx, (*config.Config).ValidateForSearch)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Books == nil {
		return fmt.Errorf("search index at %s could not be opened", a.Config.VecLitePath)
	}

	query := strings.Join(args, " ")
	var results []vectorstore.SearchResult
	if searchText {
		results, err = a.Books.TextSearch(ctx, query, searchLimit)
	} else {
		results, err = a.Books.Search(ctx, query, searchLimit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No matching books.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%-8s %.3f  %s (%s)\n", r.ID, r.Similarity, r.Title, r.Author)
	}
	return nil
}

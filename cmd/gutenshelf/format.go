package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abdulachik/gutenshelf/internal/cache"
)

// preview cuts text to at most maxLen runes, preferring a word boundary.
func preview(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	truncated := string([]rune(text)[:maxLen])

	// Find last space to avoid cutting mid-word
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimRight(truncated, " .,;:!?") + "..."
}

// printRecord writes a human-readable view of a book record.
func printRecord(w io.Writer, record *cache.BookRecord, withMetadata bool) {
	fmt.Fprintf(w, "%s\n", record.Title)
	fmt.Fprintf(w, "  id:      %s\n", record.ID)
	fmt.Fprintf(w, "  author:  %s\n", record.Author)
	if record.ImgSrc != "" {
		fmt.Fprintf(w, "  cover:   %s\n", record.ImgSrc)
	}
	if record.HasContent() {
		fmt.Fprintf(w, "  content: %d characters\n", utf8.RuneCountInString(*record.Content))
	} else {
		fmt.Fprintf(w, "  content: unavailable\n")
	}

	if !withMetadata || len(record.Metadata) == 0 {
		return
	}

	keys := make([]string, 0, len(record.Metadata))
	for k := range record.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w)
	for _, k := range keys {
		for _, v := range record.Metadata[k] {
			fmt.Fprintf(w, "  %-14s %s\n", k+":", v)
		}
	}
}

// printSummaries writes one line per book.
func printSummaries(w io.Writer, books []cache.BookSummary) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books viewed yet.")
		return
	}
	for _, b := range books {
		fmt.Fprintf(w, "%-8s %-40s %-30s %s\n",
			b.ID,
			preview(b.Title, 40),
			preview(b.Author, 30),
			b.ViewedAt.Local().Format(time.DateTime),
		)
	}
}

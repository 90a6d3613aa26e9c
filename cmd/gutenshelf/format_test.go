package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/abdulachik/gutenshelf/internal/cache"
	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "Frankenstein", preview("  Frankenstein ", 40))
	})

	t.Run("cuts at word boundary", func(t *testing.T) {
		got := preview("The Modern Prometheus, being a tale of horror", 24)
		assert.Equal(t, "The Modern Prometheus...", got)
	})

	t.Run("counts runes", func(t *testing.T) {
		got := preview(strings.Repeat("ж", 50), 10)
		assert.Equal(t, strings.Repeat("ж", 10)+"...", got)
	})
}

func TestPrintRecord(t *testing.T) {
	content := "Call me Ishmael."
	record := &cache.BookRecord{
		ID:       "2701",
		Title:    "Moby Dick",
		Author:   "Melville, Herman",
		ImgSrc:   "https://example.org/cover.jpg",
		Content:  &content,
		Metadata: map[string][]string{"subject": {"Whaling", "Sea stories"}, "language": {"English"}},
	}

	t.Run("summary", func(t *testing.T) {
		var buf bytes.Buffer
		printRecord(&buf, record, false)

		out := buf.String()
		assert.Contains(t, out, "Moby Dick\n")
		assert.Contains(t, out, "author:  Melville, Herman")
		assert.Contains(t, out, "cover:   https://example.org/cover.jpg")
		assert.Contains(t, out, "content: 16 characters")
		assert.NotContains(t, out, "Whaling")
	})

	t.Run("with metadata", func(t *testing.T) {
		var buf bytes.Buffer
		printRecord(&buf, record, true)

		out := buf.String()
		assert.Contains(t, out, "Whaling")
		assert.Contains(t, out, "Sea stories")
		assert.Less(t, strings.Index(out, "language:"), strings.Index(out, "subject:"))
	})

	t.Run("without content", func(t *testing.T) {
		var buf bytes.Buffer
		printRecord(&buf, &cache.BookRecord{ID: "1", Title: "T", Author: "-"}, true)
		assert.Contains(t, buf.String(), "content: unavailable")
	})
}

func TestPrintSummaries(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		printSummaries(&buf, nil)
		assert.Equal(t, "No books viewed yet.\n", buf.String())
	})

	t.Run("one line per book", func(t *testing.T) {
		var buf bytes.Buffer
		printSummaries(&buf, []cache.BookSummary{
			{ID: "84", Title: "Frankenstein", Author: "Shelley, Mary", ViewedAt: time.Now()},
			{ID: "11", Title: "Alice's Adventures in Wonderland", Author: "Carroll, Lewis", ViewedAt: time.Now()},
		})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "84"))
		assert.Contains(t, lines[1], "Carroll, Lewis")
	})
}

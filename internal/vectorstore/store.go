// Package vectorstore provides a VecLite-based search index over fetched books.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abdul-hamid-achik/veclite"
	"github.com/abdulachik/gutenshelf/internal/cache"
)

const booksCollection = "books"

// indexedFields are the metadata rows folded into the searchable document.
var indexedFields = []string{"subject", "language", "loc class", "summary"}

// Config holds configuration for the BookStore.
type Config struct {
	// Path to the VecLite database file (e.g., "data/books.veclite").
	Path string

	// ConfigPath is the path to veclite.yaml config file (optional).
	// If empty, searches ./veclite.yaml, ~/.veclite/config.yaml.
	ConfigPath string
}

// BookStore wraps a VecLite collection of book documents.
type BookStore struct {
	vecdb *veclite.DB
	coll  *veclite.Collection
}

// SearchResult is one matching book.
type SearchResult struct {
	ID         string
	Title      string
	Author     string
	Similarity float32
}

// New opens the VecLite database and the books collection, creating it on
// first use. The embedder comes from veclite.yaml.
func New(cfg Config) (*BookStore, error) {
	vecliteCfg, err := veclite.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load veclite config: %w", err)
	}

	embedder, err := veclite.NewEmbedderFromConfig(vecliteCfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	vecdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open veclite db: %w", err)
	}

	coll, err := vecdb.CreateCollection(booksCollection,
		veclite.WithDimension(embedder.Dimension()),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithHNSW(16, 200),
		veclite.WithTextIndex("title", "author", "text"),
		veclite.WithEmbedder(embedder),
	)
	if err != nil {
		// already exists
		coll, err = vecdb.GetCollection(booksCollection)
		if err != nil {
			vecdb.Close()
			return nil, fmt.Errorf("get collection: %w", err)
		}
	}

	slog.Debug("book index opened",
		"path", cfg.Path,
		"provider", vecliteCfg.Embedder.Provider,
		"books", coll.Count(),
	)

	return &BookStore{vecdb: vecdb, coll: coll}, nil
}

// Close closes the VecLite database.
func (s *BookStore) Close() error {
	if s.vecdb != nil {
		return s.vecdb.Close()
	}
	return nil
}

// IndexBook embeds a book's bibliographic text and persists it.
func (s *BookStore) IndexBook(ctx context.Context, summary cache.BookSummary, record *cache.BookRecord) error {
	text := Document(summary, record)
	payload := map[string]any{
		"book_id": summary.ID,
		"title":   summary.Title,
		"author":  summary.Author,
		"text":    text,
	}

	if _, err := s.coll.InsertText(text, payload); err != nil {
		return fmt.Errorf("insert book %s: %w", summary.ID, err)
	}
	if err := s.vecdb.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// Search finds books similar to the query using vector search.
func (s *BookStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	results, err := s.coll.SearchText(query, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return convertResults(results), nil
}

// TextSearch performs BM25 full-text search on title, author and text.
func (s *BookStore) TextSearch(ctx context.Context, query string, k int) ([]SearchResult, error) {
	results, err := s.coll.TextSearch(query, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return convertResults(results), nil
}

// Count returns the number of indexed documents.
func (s *BookStore) Count() int {
	return s.coll.Count()
}

// Stats returns statistics about the collection.
func (s *BookStore) Stats() veclite.CollectionStats {
	return s.coll.Stats()
}

// Document builds the text embedded for a book: title, author and a few
// descriptive metadata rows. Book content is not included.
func Document(summary cache.BookSummary, record *cache.BookRecord) string {
	var b strings.Builder
	b.WriteString(summary.Title)
	if summary.Author != "" && summary.Author != "-" {
		b.WriteString(" by ")
		b.WriteString(summary.Author)
	}
	if record == nil {
		return b.String()
	}
	for _, field := range indexedFields {
		for _, v := range record.Metadata[field] {
			b.WriteString("\n")
			b.WriteString(v)
		}
	}
	return b.String()
}

func convertResults(results []veclite.Result) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		sr := SearchResult{Similarity: r.Score}
		if r.Record.Payload != nil {
			sr.ID, _ = r.Record.Payload["book_id"].(string)
			sr.Title, _ = r.Record.Payload["title"].(string)
			sr.Author, _ = r.Record.Payload["author"].(string)
		}
		out = append(out, sr)
	}
	return out
}

// Package library is the book fetch pipeline: it serves books from the local
// cache and, on a miss, fetches text and metadata from the catalog, derives
// the record and writes it back.
//
// The in-memory index is the working copy of the persisted one. It is loaded
// once (Init, or lazily on first use) and flushed after every mutation. Two
// Fetch calls for the same uncached id both go to the network and the later
// write wins.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/abdulachik/gutenshelf/internal/cache"
	"github.com/abdulachik/gutenshelf/internal/extractor"
)

// placeholderAuthor is used when a page lists neither author nor editor.
const placeholderAuthor = "-"

var (
	// ErrFetch is wrapped by every error that leaves a book uncached.
	ErrFetch = errors.New("book fetch failed")

	// ErrMetadataFetch reports that the metadata page could not be retrieved.
	// It wraps ErrFetch.
	ErrMetadataFetch = fmt.Errorf("%w: metadata unavailable", ErrFetch)
)

// Source retrieves book text and metadata pages by id.
type Source interface {
	FetchContent(ctx context.Context, id string) (string, error)
	FetchMetadata(ctx context.Context, id string) (string, error)
}

// Store persists the index and records. *cache.Cache implements it.
type Store interface {
	LoadIndex(ctx context.Context) cache.BooksIndex
	LoadRecord(ctx context.Context, id string) (*cache.BookRecord, bool)
	SaveIndex(ctx context.Context, index cache.BooksIndex) error
	SaveRecord(ctx context.Context, id string, record *cache.BookRecord) error
}

// Indexer receives every freshly fetched book. Optional.
type Indexer interface {
	IndexBook(ctx context.Context, summary cache.BookSummary, record *cache.BookRecord) error
}

// Library runs the fetch pipeline over a Source and a Store.
type Library struct {
	source  Source
	store   Store
	indexer Indexer
	now     func() time.Time

	mu      sync.Mutex
	index   cache.BooksIndex
	current *cache.BookRecord
}

// Config holds the collaborators of a Library.
type Config struct {
	Source  Source
	Store   Store
	Indexer Indexer
	// Now defaults to time.Now.
	Now func() time.Time
}

// New creates a Library.
func New(cfg Config) *Library {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Library{
		source:  cfg.Source,
		store:   cfg.Store,
		indexer: cfg.Indexer,
		now:     now,
	}
}

// Init loads the persisted index into memory, replacing any working copy.
func (l *Library) Init(ctx context.Context) {
	index := l.store.LoadIndex(ctx)

	l.mu.Lock()
	l.index = index
	l.mu.Unlock()

	slog.Debug("books index loaded", "books", len(index))
}

// Fetch returns the record for id, from the cache when both its index entry
// and record are present, otherwise from the catalog.
func (l *Library) Fetch(ctx context.Context, id string) (*cache.BookRecord, error) {
	l.setCurrent(nil)

	if record, ok := l.hit(ctx, id); ok {
		slog.Debug("book served from cache", "id", id)
		l.setCurrent(record)
		return record, nil
	}

	record, err := l.fetchRemote(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := cache.BookSummary{
		ID:       id,
		Title:    record.Title,
		Author:   record.Author,
		ImgSrc:   record.ImgSrc,
		ViewedAt: l.now(),
	}

	if err := l.persist(ctx, summary, record); err != nil {
		return nil, err
	}

	if l.indexer != nil {
		if err := l.indexer.IndexBook(ctx, summary, record); err != nil {
			slog.Warn("failed to index book", "id", id, "error", err)
		}
	}

	slog.Info("book fetched", "id", id, "title", record.Title, "has_content", record.HasContent())
	l.setCurrent(record)
	return record, nil
}

// hit serves id from the cache and bumps its viewedAt.
func (l *Library) hit(ctx context.Context, id string) (*cache.BookRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ensureIndexLocked(ctx)

	summary, ok := l.index[id]
	if !ok {
		return nil, false
	}
	record, ok := l.store.LoadRecord(ctx, id)
	if !ok {
		return nil, false
	}

	summary.ViewedAt = l.laterThan(summary.ViewedAt)
	l.index[id] = summary

	if err := l.store.SaveIndex(ctx, l.index); err != nil {
		slog.Warn("failed to persist viewed time", "id", id, "error", err)
	}
	return record, true
}

// fetchRemote requests text and metadata concurrently and builds a record.
// A failed text request leaves Content nil; a failed metadata request fails
// the whole fetch.
func (l *Library) fetchRemote(ctx context.Context, id string) (*cache.BookRecord, error) {
	var (
		wg                  sync.WaitGroup
		content, metaHTML   string
		contentErr, metaErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		content, contentErr = l.source.FetchContent(ctx, id)
	}()
	go func() {
		defer wg.Done()
		metaHTML, metaErr = l.source.FetchMetadata(ctx, id)
	}()
	wg.Wait()

	if metaErr != nil {
		return nil, fmt.Errorf("fetch book %s: %w: %w", id, ErrMetadataFetch, metaErr)
	}

	meta, err := extractor.Extract(metaHTML)
	if err != nil {
		return nil, fmt.Errorf("fetch book %s: %w: %w", id, ErrFetch, err)
	}

	record := &cache.BookRecord{
		ID:       id,
		Metadata: meta.Fields,
		Title:    meta.First("title"),
		Author:   deriveAuthor(meta),
		ImgSrc:   meta.CoverURL,
	}

	if contentErr != nil {
		slog.Warn("book content unavailable", "id", id, "error", contentErr)
	} else {
		record.Content = &content
	}

	return record, nil
}

// persist merges summary into the index, writes the index, then the record.
// The two writes are independent: if the second fails the index already
// names a book whose record is missing, and the next Fetch treats it as a
// miss.
func (l *Library) persist(ctx context.Context, summary cache.BookSummary, record *cache.BookRecord) error {
	l.mu.Lock()
	l.ensureIndexLocked(ctx)
	l.index[summary.ID] = summary
	err := l.store.SaveIndex(ctx, l.index)
	l.mu.Unlock()

	if err != nil {
		return fmt.Errorf("save books index: %w", err)
	}
	if err := l.store.SaveRecord(ctx, summary.ID, record); err != nil {
		return fmt.Errorf("save book %s: %w", summary.ID, err)
	}
	return nil
}

// Cached returns the record for id without fetching or touching viewedAt.
func (l *Library) Cached(ctx context.Context, id string) (*cache.BookRecord, bool) {
	l.mu.Lock()
	l.ensureIndexLocked(ctx)
	_, indexed := l.index[id]
	l.mu.Unlock()

	if !indexed {
		return nil, false
	}
	return l.store.LoadRecord(ctx, id)
}

// Current returns the record of the last successful Fetch, or nil while a
// fetch is running or after one failed.
func (l *Library) Current() *cache.BookRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Index returns a copy of the in-memory index.
func (l *Library) Index(ctx context.Context) cache.BooksIndex {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ensureIndexLocked(ctx)
	out := make(cache.BooksIndex, len(l.index))
	for id, s := range l.index {
		out[id] = s
	}
	return out
}

// List returns the indexed books, most recently viewed first.
func (l *Library) List(ctx context.Context) []cache.BookSummary {
	index := l.Index(ctx)

	books := make([]cache.BookSummary, 0, len(index))
	for _, s := range index {
		books = append(books, s)
	}
	sort.Slice(books, func(i, j int) bool {
		if !books[i].ViewedAt.Equal(books[j].ViewedAt) {
			return books[i].ViewedAt.After(books[j].ViewedAt)
		}
		return books[i].ID < books[j].ID
	})
	return books
}

func (l *Library) ensureIndexLocked(ctx context.Context) {
	if l.index == nil {
		l.index = l.store.LoadIndex(ctx)
	}
}

func (l *Library) setCurrent(record *cache.BookRecord) {
	l.mu.Lock()
	l.current = record
	l.mu.Unlock()
}

// laterThan returns now, nudged forward if the clock has not moved past prev.
func (l *Library) laterThan(prev time.Time) time.Time {
	now := l.now()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

func deriveAuthor(meta extractor.Metadata) string {
	if author := meta.First("author"); author != "" {
		return author
	}
	if editor := meta.First("editor"); editor != "" {
		return editor
	}
	return placeholderAuthor
}

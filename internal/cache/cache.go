// Package cache persists viewed books in the local key-value store.
//
// Two kinds of values live in the store: a single books index under the key
// "books", and one full record per book under "book-{id}". Both are JSON
// text. Writes replace the whole value; any merging happens in the caller.
// There is no transaction spanning an index write and a record write.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdulachik/gutenshelf/internal/db"
)

const indexKey = "books"

// BookSummary is the lightweight per-book entry kept in the index.
type BookSummary struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	ImgSrc   string    `json:"imgSrc,omitempty"`
	ViewedAt time.Time `json:"viewedAt"`
}

// BookRecord is the full per-book data. Content is nil when the content
// fetch failed.
type BookRecord struct {
	ID       string              `json:"id"`
	Content  *string             `json:"content,omitempty"`
	Metadata map[string][]string `json:"metadata"`
	Title    string              `json:"title"`
	Author   string              `json:"author"`
	ImgSrc   string              `json:"imgSrc,omitempty"`
}

// HasContent reports whether the record carries book text.
func (r *BookRecord) HasContent() bool {
	return r != nil && r.Content != nil
}

// BooksIndex maps book id to its summary.
type BooksIndex map[string]BookSummary

// KV is the subset of db.Queries the cache needs.
type KV interface {
	GetValue(ctx context.Context, key string) (string, error)
	PutValue(ctx context.Context, arg db.PutValueParams) error
	CountEntries(ctx context.Context) (db.CountEntriesRow, error)
}

// Cache reads and writes books in a KV store.
type Cache struct {
	kv KV
}

// New creates a Cache backed by kv.
func New(kv KV) *Cache {
	return &Cache{kv: kv}
}

// RecordKey returns the storage key of a book record.
func RecordKey(id string) string {
	return "book-" + id
}

// LoadIndex returns the persisted index, or an empty one if it is missing or
// unreadable.
func (c *Cache) LoadIndex(ctx context.Context) BooksIndex {
	index := BooksIndex{}

	raw, ok := c.load(ctx, indexKey)
	if !ok {
		return index
	}

	if err := json.Unmarshal([]byte(raw), &index); err != nil {
		slog.Warn("discarding undecodable books index", "error", err)
		return BooksIndex{}
	}
	if index == nil {
		// the stored value was JSON null
		index = BooksIndex{}
	}
	return index
}

// LoadRecord returns the persisted record for id. A missing or undecodable
// record is reported as absent.
func (c *Cache) LoadRecord(ctx context.Context, id string) (*BookRecord, bool) {
	raw, ok := c.load(ctx, RecordKey(id))
	if !ok {
		return nil, false
	}

	var record BookRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		slog.Warn("discarding undecodable book record", "id", id, "error", err)
		return nil, false
	}
	if record.Metadata == nil {
		record.Metadata = map[string][]string{}
	}
	return &record, true
}

// SaveIndex replaces the persisted index.
func (c *Cache) SaveIndex(ctx context.Context, index BooksIndex) error {
	if index == nil {
		index = BooksIndex{}
	}
	return c.save(ctx, indexKey, index)
}

// SaveRecord replaces the persisted record for id.
func (c *Cache) SaveRecord(ctx context.Context, id string, record *BookRecord) error {
	return c.save(ctx, RecordKey(id), record)
}

// Stats describes what the cache currently holds.
type Stats struct {
	Books   int
	Entries int64
	Bytes   int64
}

// Stats counts indexed books and raw storage usage.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	row, err := c.kv.CountEntries(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count entries: %w", err)
	}
	return Stats{
		Books:   len(c.LoadIndex(ctx)),
		Entries: row.Entries,
		Bytes:   row.Bytes,
	}, nil
}

func (c *Cache) load(ctx context.Context, key string) (string, bool) {
	raw, err := c.kv.GetValue(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return "", false
	}
	return raw, true
}

func (c *Cache) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.kv.PutValue(ctx, db.PutValueParams{Key: key, Value: string(data)}); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

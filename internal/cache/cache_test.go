package cache

import (
	"context"
	"testing"
	"time"

	"github.com/abdulachik/gutenshelf/internal/db"
	"github.com/abdulachik/gutenshelf/internal/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCache_LoadIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("missing index is empty", func(t *testing.T) {
		c := New(dbtest.NewStore(t))
		index := c.LoadIndex(ctx)
		assert.NotNil(t, index)
		assert.Empty(t, index)
	})

	t.Run("undecodable index is empty", func(t *testing.T) {
		store := dbtest.NewStore(t)
		require.NoError(t, store.PutValue(ctx, db.PutValueParams{Key: "books", Value: "{not json"}))

		index := New(store).LoadIndex(ctx)
		assert.NotNil(t, index)
		assert.Empty(t, index)
	})

	t.Run("null index is empty", func(t *testing.T) {
		store := dbtest.NewStore(t)
		require.NoError(t, store.PutValue(ctx, db.PutValueParams{Key: "books", Value: "null"}))

		index := New(store).LoadIndex(ctx)
		assert.NotNil(t, index)
		assert.Empty(t, index)
	})

	t.Run("round trip", func(t *testing.T) {
		c := New(dbtest.NewStore(t))
		viewed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		require.NoError(t, c.SaveIndex(ctx, BooksIndex{
			"84": {ID: "84", Title: "Frankenstein", Author: "Shelley, Mary", ViewedAt: viewed},
		}))

		index := c.LoadIndex(ctx)
		require.Contains(t, index, "84")
		assert.Equal(t, "Frankenstein", index["84"].Title)
		assert.True(t, viewed.Equal(index["84"].ViewedAt))
	})
}

func TestCache_SaveIndex_ReplacesWholeValue(t *testing.T) {
	ctx := context.Background()
	c := New(dbtest.NewStore(t))

	require.NoError(t, c.SaveIndex(ctx, BooksIndex{"1": {ID: "1"}, "2": {ID: "2"}}))
	require.NoError(t, c.SaveIndex(ctx, BooksIndex{"3": {ID: "3"}}))

	index := c.LoadIndex(ctx)
	assert.Len(t, index, 1)
	assert.Contains(t, index, "3")
}

func TestCache_LoadRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("absent", func(t *testing.T) {
		_, ok := New(dbtest.NewStore(t)).LoadRecord(ctx, "1234")
		assert.False(t, ok)
	})

	t.Run("undecodable is absent", func(t *testing.T) {
		store := dbtest.NewStore(t)
		require.NoError(t, store.PutValue(ctx, db.PutValueParams{Key: "book-1234", Value: "]["}))

		_, ok := New(store).LoadRecord(ctx, "1234")
		assert.False(t, ok)
	})

	t.Run("round trip with content", func(t *testing.T) {
		c := New(dbtest.NewStore(t))
		record := &BookRecord{
			ID:       "1234",
			Content:  strPtr("Call me Ishmael."),
			Metadata: map[string][]string{"author": {"A", "B"}},
			Title:    "Sample",
			Author:   "A",
			ImgSrc:   "https://example.org/cover.jpg",
		}
		require.NoError(t, c.SaveRecord(ctx, "1234", record))

		got, ok := c.LoadRecord(ctx, "1234")
		require.True(t, ok)
		assert.Equal(t, record, got)
		assert.True(t, got.HasContent())
	})

	t.Run("round trip without content", func(t *testing.T) {
		c := New(dbtest.NewStore(t))
		require.NoError(t, c.SaveRecord(ctx, "1234", &BookRecord{ID: "1234", Title: "Sample", Author: "-"}))

		got, ok := c.LoadRecord(ctx, "1234")
		require.True(t, ok)
		assert.Nil(t, got.Content)
		assert.False(t, got.HasContent())
		assert.NotNil(t, got.Metadata)
	})
}

func TestCache_Stats(t *testing.T) {
	ctx := context.Background()
	c := New(dbtest.NewStore(t))

	require.NoError(t, c.SaveIndex(ctx, BooksIndex{"1": {ID: "1"}, "2": {ID: "2"}}))
	require.NoError(t, c.SaveRecord(ctx, "1", &BookRecord{ID: "1"}))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Books)
	assert.Equal(t, int64(2), stats.Entries)
	assert.Positive(t, stats.Bytes)
}

func TestRecordKey(t *testing.T) {
	assert.Equal(t, "book-1342", RecordKey("1342"))
}

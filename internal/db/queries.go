package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the key-value statements used by the local cache.
type Queries struct {
	db DBTX
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries that run inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const getValue = `SELECT value FROM kv WHERE key = ?`

// GetValue returns the blob stored under key, or sql.ErrNoRows.
func (q *Queries) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getValue, key).Scan(&value)
	return value, err
}

const putValue = `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

// PutValueParams are the arguments to PutValue.
type PutValueParams struct {
	Key   string
	Value string
}

// PutValue replaces the whole value stored under Key.
func (q *Queries) PutValue(ctx context.Context, arg PutValueParams) error {
	_, err := q.db.ExecContext(ctx, putValue, arg.Key, arg.Value)
	return err
}

const deleteValue = `DELETE FROM kv WHERE key = ?`

func (q *Queries) DeleteValue(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteValue, key)
	return err
}

const listKeys = `SELECT key FROM kv WHERE key LIKE ? || '%' ORDER BY key`

// ListKeys returns every key starting with prefix.
func (q *Queries) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listKeys, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

const countEntries = `SELECT COUNT(*), COALESCE(SUM(LENGTH(CAST(value AS BLOB))), 0) FROM kv`

// CountEntriesRow is the result of CountEntries.
type CountEntriesRow struct {
	Entries int64
	Bytes   int64
}

func (q *Queries) CountEntries(ctx context.Context) (CountEntriesRow, error) {
	var row CountEntriesRow
	err := q.db.QueryRowContext(ctx, countEntries).Scan(&row.Entries, &row.Bytes)
	return row, err
}

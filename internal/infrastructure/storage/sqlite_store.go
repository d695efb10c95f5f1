package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"FilingWatch/internal/ports"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS seen_keys (
    id  INTEGER PRIMARY KEY AUTOINCREMENT,
    key TEXT NOT NULL UNIQUE
);`

// SQLiteStore keeps the seen-key ledger in a local SQLite database. The id
// column preserves insertion order so loads replay the same order the keys
// were observed in.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.LedgerStore = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if necessary) the ledger database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns all persisted keys in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("key").From("seen_keys").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return keys, nil
}

// Save replaces the stored set inside one transaction, so readers observe
// either the previous or the new ledger, never a partial one.
func (s *SQLiteStore) Save(ctx context.Context, keys []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := sq.Delete("seen_keys").ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear seen keys: %w", err)
	}

	// Batched to stay well under SQLite's bind-variable limit.
	const batchSize = 500
	for start := 0; start < len(keys); start += batchSize {
		end := start + batchSize
		if end > len(keys) {
			end = len(keys)
		}

		ins := sq.Insert("seen_keys").Columns("key")
		for _, k := range keys[start:end] {
			ins = ins.Values(k)
		}
		query, args, err = ins.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert seen keys: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

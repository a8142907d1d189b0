package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// sqliteFile is the database file kept under the base path.
const sqliteFile = "a11yreq.sqlite"

// sqliteBackend keeps every item as a JSON blob in one table.
type sqliteBackend struct {
	db *sql.DB
}

func openSQLite(path string) (*sqliteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS items (
		kind TEXT NOT NULL,
		id TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (kind, id)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create items table: %w", err)
	}
	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) each(ctx context.Context, kind Kind, fn func(id string, data []byte)) error {
	rows, err := b.db.QueryContext(ctx, `SELECT id, payload FROM items WHERE kind = ? ORDER BY id`, string(kind))
	if err != nil {
		return fmt.Errorf("select %s: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()
	type raw struct {
		id      string
		payload []byte
	}
	// Drain before calling fn so callbacks may use the single connection.
	var raws []raw
	for rows.Next() {
		var r raw
		if err := rows.Scan(&r.id, &r.payload); err != nil {
			return fmt.Errorf("scan %s: %w", kind, err)
		}
		raws = append(raws, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, r := range raws {
		fn(r.id, r.payload)
	}
	return nil
}

func (b *sqliteBackend) read(kind Kind, id string) ([]byte, error) {
	var payload []byte
	err := b.db.QueryRow(`SELECT payload FROM items WHERE kind = ? AND id = ?`, string(kind), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, os.ErrNotExist
	}
	return payload, err
}

func (b *sqliteBackend) write(kind Kind, id string, data []byte) error {
	_, err := b.db.Exec(`INSERT INTO items (kind, id, payload) VALUES (?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET payload = excluded.payload`, string(kind), id, data)
	return err
}

func (b *sqliteBackend) erase(kind Kind, id string) error {
	res, err := b.db.Exec(`DELETE FROM items WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return os.ErrNotExist
	}
	return nil
}

func (b *sqliteBackend) close() error {
	return b.db.Close()
}

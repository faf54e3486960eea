package forms

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

const entriesSchema = `
CREATE TABLE IF NOT EXISTS entries (
	id          TEXT PRIMARY KEY,
	form_id     INTEGER NOT NULL,
	values_json TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_form ON entries(form_id, created_at);
`

// largura fixa para que a ordenação textual de created_at seja cronológica
const entryTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteEntryStore grava entradas em SQLite (driver modernc, sem cgo).
type SQLiteEntryStore struct {
	db *sql.DB
}

// NewSQLiteEntryStore abre o banco e aplica o schema.
func NewSQLiteEntryStore(dsn string) (*SQLiteEntryStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(entriesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteEntryStore{db: db}, nil
}

func (s *SQLiteEntryStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteEntryStore) Save(ctx context.Context, e Entry) error {
	raw, err := json.Marshal(e.Values)
	if err != nil {
		return fmt.Errorf("encode values: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (id, form_id, values_json, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.FormID, string(raw), e.CreatedAt.UTC().Format(entryTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *SQLiteEntryStore) List(ctx context.Context, formID int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, form_id, values_json, created_at FROM entries WHERE form_id = ? ORDER BY created_at, id`,
		formID,
	)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			raw     string
			created string
		)
		if err := rows.Scan(&e.ID, &e.FormID, &raw, &created); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		var vals url.Values
		if err := json.Unmarshal([]byte(raw), &vals); err != nil {
			return nil, fmt.Errorf("decode values of %s: %w", e.ID, err)
		}
		e.Values = vals
		e.CreatedAt, err = time.Parse(entryTimeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteEntryStore) Count(ctx context.Context, formID int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE form_id = ?`, formID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

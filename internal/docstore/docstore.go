// Package docstore keeps whole JSON records keyed by a numeric id in the
// documents table.
package docstore

import (
	"context"
	"fmt"

	"github.com/existflow/notepado/internal/db"
)

// Record is one stored document.
type Record struct {
	ID   int64
	Body []byte
}

// Store is a persistent record store keyed by numeric id.
type Store interface {
	Put(ctx context.Context, id int64, body []byte) error
	// GetAll returns every record in ascending id order.
	GetAll(ctx context.Context) ([]Record, error)
	// Delete removes a record; deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error
}

// SQLStore implements Store on the documents table.
type SQLStore struct {
	db *db.DB
}

// New creates a document store over an open database.
func New(database *db.DB) *SQLStore {
	return &SQLStore{db: database}
}

func (s *SQLStore) Put(ctx context.Context, id int64, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, body) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body
	`, id, string(body))
	if err != nil {
		return fmt.Errorf("put document %d: %w", id, err)
	}
	return nil
}

func (s *SQLStore) GetAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, body FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var body string
		if err := rows.Scan(&rec.ID, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		rec.Body = []byte(body)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	return nil
}

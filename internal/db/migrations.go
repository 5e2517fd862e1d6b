package db

import "fmt"

// migrate runs all database migrations
func (db *DB) migrate() error {
	migrations := []string{
		migrationCreateDocuments,
		migrationCreateKV,
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// documents holds one JSON note record per id
const migrationCreateDocuments = `
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY,
    body TEXT NOT NULL
);
`

const migrationCreateKV = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "notes.db")
	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{"documents", "kv"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
	assert.Equal(t, path, database.Path())
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	first, err := Open(path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO kv (key, value) VALUES ('itemOrder', '[1]')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var value string
	require.NoError(t, second.QueryRow(`SELECT value FROM kv WHERE key='itemOrder'`).Scan(&value))
	assert.Equal(t, "[1]", value)
}

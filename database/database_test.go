package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/config"
)

func TestOpenMigrates(t *testing.T) {
	cfg := config.Config{DBUrl: filepath.Join(t.TempDir(), "test.sqlite")}

	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"author", "token", "form", "form_field", "submission", "submission_field", "submission_image"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}

	var fk bool
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.True(t, fk)

	// reopening finds nothing to migrate
	db.Close()
	db, err = Open(cfg)
	require.NoError(t, err)
	db.Close()
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.sqlite?_foreign_keys=on&_busy_timeout=5000", dsn("a.sqlite"))
	assert.Equal(t, "a.sqlite?mode=rw&_foreign_keys=on&_busy_timeout=5000", dsn("a.sqlite?mode=rw"))
}

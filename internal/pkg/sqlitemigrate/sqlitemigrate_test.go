package sqlitemigrate_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/sqlitemigrate"
)

func TestApply(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer func() { _ = db.Close() }()

	fsys := fstest.MapFS{
		"0001_init.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE things (name TEXT);\n-- +migrate Down\nDROP TABLE things;\n")},
		"0002_more.sql": {Data: []byte("ALTER TABLE things ADD COLUMN size INTEGER;")},
		"README.md":     {Data: []byte("ignored")},
	}

	ctx := context.Background()
	require.NoError(t, sqlitemigrate.Apply(ctx, db, fsys))
	// Second run must be a no-op, the ALTER would fail if repeated
	require.NoError(t, sqlitemigrate.Apply(ctx, db, fsys))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)

	_, err = db.Exec("INSERT INTO things (name, size) VALUES ('a', 1)")
	assert.NoError(t, err)
}

func TestUpSection(t *testing.T) {
	assert.Equal(t, "\nCREATE;\n", sqlitemigrate.UpSection("-- +migrate Up\nCREATE;\n-- +migrate Down\nDROP;"))
	assert.Equal(t, "CREATE;", sqlitemigrate.UpSection("CREATE;"))
}

package tablesource

import (
	"context"
	"database/sql"
	"strings"
	"time"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/sqlitemigrate"
	"github.com/KirkDiggler/rpg-dicebot/internal/repositories/table_source/migrations"
)

// SQLiteConfig holds the configuration for the SQLite store
type SQLiteConfig struct {
	// Path is the database file, ":memory:" for a private in-memory database
	Path  string
	Clock clock.Clock
}

// Validate ensures all required fields are provided
func (c *SQLiteConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if strings.TrimSpace(c.Path) == "" {
		vb.RequiredField("Path")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

// SQLiteStore keeps table sources in a SQLite database
type SQLiteStore struct {
	db    *sql.DB
	clock clock.Clock
}

// OpenSQLite opens the database and applies the embedded migrations
func OpenSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteStore, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open table source database")
	}
	if cfg.Path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping table source database")
	}

	if err := sqlitemigrate.Apply(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to migrate table source database")
	}

	return &SQLiteStore{db: db, clock: cfg.Clock}, nil
}

var _ Store = (*SQLiteStore)(nil)

// Close closes the database
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List returns every stored source ordered by name
func (s *SQLiteStore) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, body, updated_at FROM table_sources ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list table sources")
	}
	defer func() { _ = rows.Close() }()

	var sources []Source
	for rows.Next() {
		var (
			src       Source
			updatedAt int64
		)
		if err := rows.Scan(&src.Name, &src.Body, &updatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan table source")
		}
		src.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate table sources")
	}

	return &ListOutput{Sources: sources}, nil
}

// Put inserts or replaces a source
func (s *SQLiteStore) Put(ctx context.Context, input *PutInput) (*PutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.InvalidArgument("name is required")
	}

	now := s.clock.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO table_sources (name, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, input.Body, now.UnixMilli(),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store table source %s", name)
	}

	return &PutOutput{Source: Source{
		Name:      name,
		Body:      input.Body,
		UpdatedAt: time.UnixMilli(now.UnixMilli()).UTC(),
	}}, nil
}

// Delete removes a source
func (s *SQLiteStore) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("name is required")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM table_sources WHERE name = ?`, input.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete table source %s", input.Name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read affected rows")
	}

	return &DeleteOutput{Deleted: n > 0}, nil
}

// Package tablesource provides the raw text blobs that range tables are compiled from
package tablesource

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=tablesourcemock github.com/KirkDiggler/rpg-dicebot/internal/repositories/table_source Repository

// Source is one raw table text
type Source struct {
	// Name identifies the source, e.g. the file stem "wildnis"
	Name string

	// Body is the raw table text
	Body string

	UpdatedAt time.Time
}

// ListInput is empty for now
type ListInput struct{}

// ListOutput holds every source ordered by name
type ListOutput struct {
	Sources []Source
}

// PutInput inserts or replaces a source
type PutInput struct {
	Name string
	Body string
}

// PutOutput holds the stored source
type PutOutput struct {
	Source Source
}

// DeleteInput names the source to remove
type DeleteInput struct {
	Name string
}

// DeleteOutput reports whether a source was removed
type DeleteOutput struct {
	Deleted bool
}

// Repository lists table sources
type Repository interface {
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// Store is a Repository that can also be written to
type Store interface {
	Repository
	Put(ctx context.Context, input *PutInput) (*PutOutput, error)
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
	Close() error
}

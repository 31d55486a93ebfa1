package tablesource

import (
	"context"
)

// MultiRepository lists the sources of several repositories in order. A later source
// with the same name replaces an earlier one, so a stored import can override a file.
type MultiRepository struct {
	repos []Repository
}

// NewMulti combines repos, nil entries are skipped
func NewMulti(repos ...Repository) *MultiRepository {
	m := &MultiRepository{}
	for _, r := range repos {
		if r != nil {
			m.repos = append(m.repos, r)
		}
	}
	return m
}

var _ Repository = (*MultiRepository)(nil)

// List merges the sources by name, keeping first-seen order
func (m *MultiRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	var sources []Source
	index := make(map[string]int)

	for _, r := range m.repos {
		out, err := r.List(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, src := range out.Sources {
			if i, ok := index[src.Name]; ok {
				sources[i] = src
				continue
			}
			index[src.Name] = len(sources)
			sources = append(sources, src)
		}
	}

	return &ListOutput{Sources: sources}, nil
}

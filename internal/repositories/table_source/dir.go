package tablesource

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
)

const sourceExt = ".txt"

// DirRepository reads every *.txt file at the root of a file system
type DirRepository struct {
	fsys fs.FS
}

// NewDir creates a repository over fsys, usually os.DirFS(dir)
func NewDir(fsys fs.FS) (*DirRepository, error) {
	if fsys == nil {
		return nil, errors.InvalidArgument("file system is required")
	}
	return &DirRepository{fsys: fsys}, nil
}

var _ Repository = (*DirRepository)(nil)

// List reads the sources, the name is the file stem
func (r *DirRepository) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read table directory")
	}

	var sources []Source
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "listing table sources")
		}
		if entry.IsDir() || !strings.EqualFold(path.Ext(entry.Name()), sourceExt) {
			continue
		}

		body, err := fs.ReadFile(r.fsys, entry.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read table source %s", entry.Name())
		}

		src := Source{
			Name: strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())),
			Body: string(body),
		}
		if info, err := entry.Info(); err == nil {
			src.UpdatedAt = info.ModTime()
		}
		sources = append(sources, src)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })

	return &ListOutput{Sources: sources}, nil
}

package remote

import (
	"context"
	"os"

	"github.com/inovacc/journal/internal/model"
)

// FileSource reads remote records from a static JSON file, the shape a
// reflections backend keeps on disk.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(ctx context.Context) ([]model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &model.TransportError{Op: "READ", URL: s.Path, Err: err}
	}

	defer func() { _ = f.Close() }()

	entries, err := Decode(f)
	if err != nil {
		return nil, &model.TransportError{Op: "READ", URL: s.Path, Err: err}
	}

	return entries, nil
}

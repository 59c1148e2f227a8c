// Package file implements the local filesystem data source. It is the only
// source kind: the tool reads one file and writes one file, nothing else.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens files from the local disk.
type Local struct {
	path string
}

// NewLocal returns a Local source bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading. A context that is already done
// short-circuits before touching the filesystem. Filesystem errors are
// wrapped with the path while still permitting errors.Is checks (e.g.
// errors.Is(err, os.ErrNotExist)).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Path returns the configured filesystem path.
func (l *Local) Path() string { return l.path }

package docstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no document exists at the path.
	ErrNotFound = errors.New("document not found")
	// ErrNotAFile is returned when the path names something other than a regular document.
	ErrNotAFile = errors.New("path is not a file")
)

// Store reads and replaces whole documents by vault-relative path.
type Store interface {
	Read(ctx context.Context, path string) (string, error)
	Modify(ctx context.Context, path, text string) error
}

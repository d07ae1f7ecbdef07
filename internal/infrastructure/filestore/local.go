// Package filestore keeps uploaded list documents on local disk so cached
// quotes can reference the original file.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Local stores files under a single directory.
type Local struct {
	dir string
}

// NewLocal creates the storage directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Save writes the file and returns a file:// URL for it. Client-supplied
// names are flattened to their base name to keep writes inside the dir.
func (s *Local) Save(ctx context.Context, name string, content []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + abs, nil
}

// Package local implements resource storage on a filesystem via afero,
// which also gives tests a memory-backed implementation for free.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/scribe/pkg/storage"
)

// Compile-time check that Storage implements storage.Storage.
var _ storage.Storage = (*Storage)(nil)

// Storage stores each resource as a single file named by its id under a base
// directory.
type Storage struct {
	fs   afero.Fs
	base string
}

// New returns a filesystem-backed Storage rooted at dir, creating the
// directory if needed.
func New(dir string) (*Storage, error) {
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating resource directory: %w", err)
	}
	return &Storage{fs: fs, base: dir}, nil
}

// NewWithFs returns a Storage over an arbitrary afero filesystem. Tests use
// this with afero.NewMemMapFs.
func NewWithFs(fs afero.Fs, dir string) (*Storage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating resource directory: %w", err)
	}
	return &Storage{fs: fs, base: dir}, nil
}

func (s *Storage) path(id string) string {
	return filepath.Join(s.base, filepath.Base(id))
}

// Upload stores the content under a fresh id and returns the id.
func (s *Storage) Upload(ctx context.Context, r io.Reader) (string, error) {
	id := uuid.NewString()

	f, err := s.fs.OpenFile(s.path(id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("error creating resource file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		s.fs.Remove(s.path(id))
		return "", fmt.Errorf("error writing resource file: %w", err)
	}
	return id, nil
}

// Open returns the stored content for id.
func (s *Storage) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	f, err := s.fs.Open(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("error opening resource %s: %w", id, err)
	}
	return f, nil
}

// Exists reports whether a file for id is present.
func (s *Storage) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.fs.Stat(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the file for id. A missing file is a no-op.
func (s *Storage) Delete(ctx context.Context, id string) error {
	if err := s.fs.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error deleting resource %s: %w", id, err)
	}
	return nil
}

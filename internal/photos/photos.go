// Package photos stores receipt images as opaque blobs on disk. Records
// reference a photo by the id returned from Save; the storage layer never
// interprets the reference.
package photos

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is a flat directory of uuid-named image files
type Store struct {
	dir string
	log zerolog.Logger
}

// New creates the photo store rooted at dir
func New(dir string, log zerolog.Logger) *Store {
	return &Store{
		dir: dir,
		log: log.With().Str("component", "photos").Logger(),
	}
}

// Save writes the blob and returns its generated id. The extension of the
// original filename is preserved so content type can be inferred on read.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create photo directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	id := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.dir, id))
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	s.log.Debug().Str("photo", id).Int64("bytes", n).Msg("Photo saved")
	return id, nil
}

// Open returns a reader over the stored photo. The caller closes it.
func (s *Store) Open(id string) (io.ReadCloser, error) {
	path, err := s.resolve(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("photo %s not found", id)
		}
		return nil, err
	}
	return f, nil
}

// Delete removes a stored photo. Deleting a missing photo is not an error.
func (s *Store) Delete(id string) error {
	path, err := s.resolve(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve rejects ids that would escape the photo directory
func (s *Store) resolve(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid photo id %q", id)
	}
	return filepath.Join(s.dir, id), nil
}

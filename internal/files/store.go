// Package files stores uploaded resume documents on disk under
// collision-free generated names.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/extractor"
)

// SavedFile describes a stored upload
type SavedFile struct {
	// Path is the absolute location of the stored copy
	Path string
	// StoredName is the generated filename inside the store directory
	StoredName string
	// OriginalName is the name the upload arrived under
	OriginalName string
	// Size is the number of bytes written
	Size int64
}

// TooLargeError indicates an upload above the configured size limit
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file exceeds maximum upload size of %d bytes", e.Limit)
}

// Store writes uploads into a single directory
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates the store directory when missing. A maxBytes of zero
// disables the size limit.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Save validates the extension of originalName, then copies r into the
// store under a fresh UUID-based name preserving the extension.
func (s *Store) Save(originalName string, r io.Reader) (*SavedFile, error) {
	if _, err := extractor.Detect(originalName); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	storedName := uuid.NewString() + ext
	path := filepath.Join(s.dir, storedName)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}

	size, err := io.Copy(f, src)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		os.Remove(path)
		return nil, &TooLargeError{Limit: s.maxBytes}
	}

	return &SavedFile{
		Path:         path,
		StoredName:   storedName,
		OriginalName: originalName,
		Size:         size,
	}, nil
}

// Remove deletes a stored file
func (s *Store) Remove(storedName string) error {
	return os.Remove(filepath.Join(s.dir, storedName))
}

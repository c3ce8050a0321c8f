package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/davronov/qrdesk/internal/config"
	"github.com/davronov/qrdesk/internal/validation"
)

var (
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
	ErrFileType     = errors.New("file type is not allowed")
)

// Store keeps uploaded files on disk under a flat directory. Stored
// names are random; the original name lives in the content payload.
type Store struct {
	dir          string
	maxSize      int64
	allowedTypes []string
}

func NewStore(cfg config.UploadsConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &Store{
		dir:          cfg.Dir,
		maxSize:      cfg.MaxFileSize,
		allowedTypes: cfg.AllowedTypes,
	}, nil
}

// Save validates and writes an upload, returning the stored path
// relative to the upload dir.
func (s *Store) Save(r io.Reader, originalName, mimeType string, size int64) (string, error) {
	if !validation.ValidateFileSize(size, s.maxSize) {
		return "", ErrFileTooLarge
	}
	if !validation.ValidateFileType(mimeType, s.allowedTypes) {
		return "", ErrFileType
	}

	name := uuid.New().String() + filepath.Ext(originalName)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	// The size header is client-supplied; cap the copy at the limit so
	// an understated header cannot smuggle a larger body in.
	written, err := io.Copy(dst, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(dst.Name())
		return "", ErrFileTooLarge
	}

	return name, nil
}

// Open returns the stored file for serving. The path must be a bare
// name produced by Save; anything else is rejected.
func (s *Store) Open(path string) (*os.File, error) {
	if path == "" || path != filepath.Base(path) {
		return nil, fmt.Errorf("invalid file path %q", path)
	}
	return os.Open(filepath.Join(s.dir, path))
}

func (s *Store) Remove(path string) error {
	if path == "" || path != filepath.Base(path) {
		return fmt.Errorf("invalid file path %q", path)
	}
	return os.Remove(filepath.Join(s.dir, path))
}

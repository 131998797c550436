package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

// ImageStore persists vehicle images and serves them by URL. The rest of
// the application only sees the returned URL.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, filename string) error
	// URL returns the public URL for a stored filename.
	URL(filename string) string
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// SanitizeFilename strips path separators and unsafe characters from an
// uploaded filename.
func SanitizeFilename(name string) string {
	return unsafeChars.ReplaceAllString(filepath.Base(name), "_")
}

// LocalStore stores images on the local filesystem under a directory that
// is served statically at baseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: baseURL}, nil
}

func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	path := filepath.Join(s.Dir, SanitizeFilename(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}
	return s.URL(filename), nil
}

func (s *LocalStore) Delete(ctx context.Context, filename string) error {
	path := filepath.Join(s.Dir, SanitizeFilename(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(filename string) string {
	return s.BaseURL + "/" + SanitizeFilename(filename)
}

package covers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// PublicPrefix is the URL path local uploads are served under.
const PublicPrefix = "/uploads/"

// LocalStorage writes covers into a directory on disk.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates the uploads directory if needed.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save writes data to a temp file and renames it into place, so a reader
// never sees a half-written cover.
func (s *LocalStorage) Save(_ context.Context, name string, data []byte, _ string) (string, error) {
	name = filepath.Base(name)
	target := filepath.Join(s.dir, name)

	tmpFile, err := os.CreateTemp(s.dir, "upload_tmp_")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", fmt.Errorf("chmod cover: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return "", fmt.Errorf("move cover into place: %w", err)
	}

	return PublicPrefix + name, nil
}

// Dir returns the directory served under PublicPrefix.
func (s *LocalStorage) Dir() string {
	return s.dir
}

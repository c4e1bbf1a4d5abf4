package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalBlobStore keeps uploaded files in a directory that is served statically under publicPath
type LocalBlobStore struct {
	dir        string
	publicPath string
}

func NewLocalBlobStore(dir, publicPath string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalBlobStore{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

// Save writes data under a fresh name and returns the public URL of the file.
// Only the extension of filename is kept.
func (s *LocalBlobStore) Save(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.New().String() + ext

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path.Join(s.publicPath, name), nil
}

// Delete removes the file behind url. A missing file is not an error.
func (s *LocalBlobStore) Delete(ctx context.Context, url string) error {
	name := path.Base(url)
	if name == "." || name == "/" || !strings.HasPrefix(url, s.publicPath+"/") {
		return fmt.Errorf("url %q is not managed by this store", url)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

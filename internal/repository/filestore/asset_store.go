package filestore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"portfolio-backend/internal/domain"
)

// AssetStore writes uploaded images into dir and reports them under urlPrefix.
type AssetStore struct {
	dir       string
	urlPrefix string
}

var _ domain.AssetStore = (*AssetStore)(nil)

func NewAssetStore(dir, urlPrefix string) *AssetStore {
	return &AssetStore{dir: dir, urlPrefix: urlPrefix}
}

// SaveImage writes data as filename (already sanitized) and returns its public path.
// An existing file with the same name is replaced.
func (s *AssetStore) SaveImage(_ context.Context, filename string, data []byte) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid asset name %q", filename)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	return path.Join("/", s.urlPrefix, filename), nil
}

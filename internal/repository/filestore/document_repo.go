package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/metrics"

	"github.com/goccy/go-json"
)

const indent = "    "

// DocumentStore keeps the whole site in one JSON file. Update serializes
// writers inside this process only; separate processes sharing the file are
// last-writer-wins.
type DocumentStore struct {
	path string
	mu   sync.Mutex
}

var _ domain.DocumentRepository = (*DocumentStore)(nil)

func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{path: path}
}

func (s *DocumentStore) Path() string {
	return s.path
}

// Load reads the document. A missing or empty file yields an empty document.
func (s *DocumentStore) Load(_ context.Context) (*domain.Document, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &domain.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", s.path, err)
	}
	return Decode(raw)
}

// Decode parses document bytes; blank input is an empty document.
func Decode(raw []byte) (*domain.Document, error) {
	doc := &domain.Document{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// Encode renders the document the way it is stored: 4-space indent,
// non-ASCII and HTML characters left as is.
func Encode(doc *domain.Document) ([]byte, error) {
	return json.MarshalIndentWithOption(doc, "", indent, json.DisableHTMLEscape())
}

// Export re-encodes the current document for download.
func (s *DocumentStore) Export(ctx context.Context) ([]byte, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Encode(doc)
}

func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

// save writes to a temp file in the target directory and renames it over
// the document so readers never see a half-written file.
func (s *DocumentStore) save(_ context.Context, doc *domain.Document) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDocumentSave(time.Since(start), err) }()

	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// Update runs load, fn, save under the store mutex. When fn fails nothing is written.
func (s *DocumentStore) Update(ctx context.Context, fn func(*domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(ctx, doc)
}

// Seed writes doc when the file is missing or empty. It reports whether it wrote.
func (s *DocumentStore) Seed(ctx context.Context, doc *domain.Document) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	switch {
	case err == nil && info.Size() > 0:
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat document: %w", err)
	}
	if err := s.save(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/filestore"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock audit sink
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) Append(ctx context.Context, rec domain.AuditRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func newAudit() *MockAuditLogger {
	audit := new(MockAuditLogger)
	audit.On("Append", mock.Anything, mock.Anything).Return(nil)
	return audit
}

func auditedAction(action, section string) interface{} {
	return mock.MatchedBy(func(rec domain.AuditRecord) bool {
		return rec.Action == action && rec.Section == section
	})
}

func adminCtx() context.Context {
	return domain.WithAuth(context.Background(), domain.AuthContext{Subject: "admin", Authenticated: true})
}

const adminPassword = "adminpass"

// newStore seeds a document store in a temp dir with one active "main" portfolio.
func newStore(t *testing.T, mutate ...func(doc *domain.Document)) *filestore.DocumentStore {
	t.Helper()
	hash, err := security.HashPassword(adminPassword)
	require.NoError(t, err)

	doc := filestore.DefaultDocument("admin", hash, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, fn := range mutate {
		fn(doc)
	}
	store := filestore.NewDocumentStore(filepath.Join(t.TempDir(), "data.json"))
	_, err = store.Seed(context.Background(), doc)
	require.NoError(t, err)
	return store
}

func withoutActivePortfolio(doc *domain.Document) {
	for i := range doc.Portfolios {
		doc.Portfolios[i].IsActive = false
	}
}

func load(t *testing.T, store *filestore.DocumentStore) *domain.Document {
	t.Helper()
	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	return doc
}

func fileBytes(t *testing.T, store *filestore.DocumentStore) []byte {
	t.Helper()
	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	return raw
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperror.CodeOf(err), err.Error())
}

// failingStore fails every save; reads go to the embedded store.
type failingStore struct {
	*filestore.DocumentStore
}

func (f failingStore) Update(ctx context.Context, fn func(*domain.Document) error) error {
	doc, err := f.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return errors.New("disk full")
}

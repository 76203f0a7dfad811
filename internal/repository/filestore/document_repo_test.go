package filestore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/filestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) (*filestore.DocumentStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "data.json")
	store := filestore.NewDocumentStore(path)
	doc := filestore.DefaultDocument("admin", "$2a$10$hash", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	wrote, err := store.Seed(context.Background(), doc)
	require.NoError(t, err)
	require.True(t, wrote)
	return store, path
}

func TestLoadMissingAndEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	doc, err := filestore.NewDocumentStore(filepath.Join(dir, "nope.json")).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Portfolios)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o644))
	doc, err = filestore.NewDocumentStore(empty).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Portfolios)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := filestore.NewDocumentStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, path := seededStore(t)

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, doc))

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	text := string(first)
	assert.Contains(t, text, "\n    \"admin_credentials\": {")
	assert.Contains(t, text, "🔬", "non-ASCII stays literal")
	assert.Contains(t, text, "Software & Research", "no HTML escaping")
	assert.Contains(t, text, "\"highlight1_emoji\"")
}

func TestRoundTripLegacyDocument(t *testing.T) {
	ctx := context.Background()
	raw := `{
    "admin_credentials": {
        "username": "admin",
        "password_hash": "pbkdf2:sha256:600000$abc$def"
    },
    "portfolios": [],
    "about": {
        "hero_title": "Ada",
        "hero_subtitle": "",
        "hero_description": "",
        "about_text": "",
        "highlight1_emoji": "🌟",
        "highlight1_title": "",
        "highlight1_description": "",
        "highlight2_emoji": "",
        "highlight2_title": "",
        "highlight2_description": "",
        "highlight3_emoji": "",
        "highlight3_title": "",
        "highlight3_description": "",
        "hero_buttons": []
    },
    "settings": {
        "site_title": "Ada <Lovelace>",
        "allow_public_access": false
    }
}`
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	store := filestore.NewDocumentStore(path)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc.About.HeroTitle)
	assert.False(t, doc.Settings.PublicAccessAllowed())
	require.NoError(t, store.Save(ctx, doc))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))
}

func TestRoundTripKeepsFalsySystemSettings(t *testing.T) {
	ctx := context.Background()
	raw := `{
    "admin_credentials": {
        "username": "admin",
        "password_hash": "$2a$10$hash"
    },
    "portfolios": [],
    "settings": {
        "site_title": "Site",
        "default_portfolio": "",
        "allow_public_access": true,
        "maintenance_mode": false,
        "default_theme": "Default Dark",
        "section_alignment": "center"
    }
}`
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	store := filestore.NewDocumentStore(path)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, doc.Settings.InMaintenance())
	require.NoError(t, store.Save(ctx, doc))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))
}

func TestUpdateDoesNotWriteOnError(t *testing.T) {
	ctx := context.Background()
	store, path := seededStore(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Update(ctx, func(doc *domain.Document) error {
		doc.Portfolios = nil
		doc.AdminCredentials.Username = "mallory"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateSerializesWriters(t *testing.T) {
	ctx := context.Background()
	store, _ := seededStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, func(doc *domain.Document) error {
				doc.Portfolios[0].Projects = append(doc.Portfolios[0].Projects, domain.Project{Title: "p"})
				return nil
			})
		}()
	}
	wg.Wait()

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Portfolios[0].Projects, 21)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	_, path := seededStore(t)
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
}

func TestSeedSkipsExistingFile(t *testing.T) {
	store, _ := seededStore(t)
	wrote, err := store.Seed(context.Background(), &domain.Document{})
	require.NoError(t, err)
	assert.False(t, wrote)
}

func TestSaveFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// parent "directory" is a regular file
	store := filestore.NewDocumentStore(filepath.Join(blocker, "data.json"))
	assert.Error(t, store.Save(context.Background(), &domain.Document{}))
}

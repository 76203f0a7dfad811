package portfolio_test

import (
	"fmt"
	"testing"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/portfolio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func sequentialIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func newRegistry(doc *domain.Document, ids ...string) *portfolio.Registry {
	opts := []portfolio.Option{portfolio.WithClock(func() time.Time { return fixedNow })}
	if len(ids) > 0 {
		opts = append(opts, portfolio.WithIDGenerator(sequentialIDs(ids...)))
	}
	return portfolio.NewRegistry(doc, opts...)
}

func activeCount(doc *domain.Document) int {
	n := 0
	for _, p := range doc.Portfolios {
		if p.IsActive {
			n++
		}
	}
	return n
}

func TestCreate(t *testing.T) {
	doc := &domain.Document{}
	reg := newRegistry(doc, "aaaa1111")

	p := reg.Create("Data Science", "ds roles")

	require.Len(t, doc.Portfolios, 1)
	assert.Equal(t, "aaaa1111", p.ID)
	assert.Equal(t, "Data Science", p.Name)
	assert.Equal(t, "ds roles", p.Description)
	assert.False(t, p.IsActive)
	assert.Equal(t, "2024-05-06T07:08:09Z", p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Equal(t, "New Portfolio", p.About.HeroTitle)
	assert.Equal(t, "🚀", p.About.Highlights[2].Emoji)
	assert.NotNil(t, p.Skills.Technical)
	assert.Empty(t, p.Projects)
}

func TestCreateDefaultIDs(t *testing.T) {
	doc := &domain.Document{}
	reg := portfolio.NewRegistry(doc)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p := reg.Create(fmt.Sprintf("p%d", i), "")
		assert.Len(t, p.ID, 8)
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}

func TestCreateRerollsCollidingID(t *testing.T) {
	doc := &domain.Document{}
	reg := newRegistry(doc, "same0000", "same0000", "other000")

	first := reg.Create("one", "").ID
	second := reg.Create("two", "").ID

	assert.Equal(t, "same0000", first)
	assert.Equal(t, "other000", second)
}

func TestGetActiveAndByID(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		reg := newRegistry(&domain.Document{})
		_, ok := reg.GetActive()
		assert.False(t, ok)
		_, ok = reg.GetByID("x")
		assert.False(t, ok)
	})

	t.Run("first active in stored order", func(t *testing.T) {
		doc := &domain.Document{Portfolios: []domain.Portfolio{
			{ID: "a"}, {ID: "b", IsActive: true}, {ID: "c", IsActive: true},
		}}
		reg := newRegistry(doc)
		p, ok := reg.GetActive()
		require.True(t, ok)
		assert.Equal(t, "b", p.ID)

		p, ok = reg.GetByID("c")
		require.True(t, ok)
		assert.Equal(t, "c", p.ID)
	})
}

func TestSetActive(t *testing.T) {
	doc := &domain.Document{Portfolios: []domain.Portfolio{
		{ID: "a", IsActive: true}, {ID: "b", IsActive: true}, {ID: "c"},
	}}
	reg := newRegistry(doc)

	t.Run("unknown id changes nothing", func(t *testing.T) {
		assert.False(t, reg.SetActive("zzz"))
		assert.True(t, doc.Portfolios[0].IsActive)
		assert.True(t, doc.Portfolios[1].IsActive)
	})

	t.Run("exactly one active", func(t *testing.T) {
		assert.True(t, reg.SetActive("c"))
		assert.Equal(t, 1, activeCount(doc))
		assert.True(t, doc.Portfolios[2].IsActive)
	})

	t.Run("idempotent", func(t *testing.T) {
		before := append([]domain.Portfolio(nil), doc.Portfolios...)
		assert.True(t, reg.SetActive("c"))
		assert.Equal(t, before, doc.Portfolios)
	})
}

func TestUpdateAndTouch(t *testing.T) {
	doc := &domain.Document{Portfolios: []domain.Portfolio{{ID: "a", Name: "Old", UpdatedAt: "2024-01-01"}}}
	reg := newRegistry(doc)

	name := "New"
	contact := domain.Contact{Email: "me@example.com"}
	assert.True(t, reg.Update("a", portfolio.PortfolioPatch{Name: &name, Contact: &contact}))
	assert.False(t, reg.Update("b", portfolio.PortfolioPatch{Name: &name}))

	p := doc.Portfolios[0]
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, "me@example.com", p.Contact.Email)
	assert.Equal(t, "2024-05-06T07:08:09Z", p.UpdatedAt)
}

func TestDelete(t *testing.T) {
	doc := &domain.Document{Portfolios: []domain.Portfolio{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	reg := newRegistry(doc)

	assert.True(t, reg.Delete("b"))
	assert.False(t, reg.Delete("b"))
	require.Len(t, doc.Portfolios, 2)
	assert.Equal(t, "a", doc.Portfolios[0].ID)
	assert.Equal(t, "c", doc.Portfolios[1].ID)
}

func TestDuplicate(t *testing.T) {
	doc := &domain.Document{}
	reg := newRegistry(doc, "src00000", "dup00000")
	src := reg.Create("Backend", "")
	src.Projects = append(src.Projects, domain.Project{Title: "API", Technologies: []string{"Go"}})
	src.Skills.Technical = append(src.Skills.Technical, domain.Skill{Name: "Go"})
	require.True(t, reg.SetActive(src.ID))

	dup, err := reg.Duplicate("src00000", "Backend Copy")
	require.NoError(t, err)

	assert.Equal(t, "dup00000", dup.ID)
	assert.Equal(t, "Backend Copy", dup.Name)
	assert.False(t, dup.IsActive)
	assert.Equal(t, "API", dup.Projects[0].Title)
	assert.Equal(t, 1, activeCount(doc))

	// deep copy: mutating the duplicate leaves the source alone
	dup.Projects[0].Technologies[0] = "Rust"
	dup.Skills.Technical[0].Name = "Rust"
	original, _ := reg.GetByID("src00000")
	assert.Equal(t, "Go", original.Projects[0].Technologies[0])
	assert.Equal(t, "Go", original.Skills.Technical[0].Name)

	_, err = reg.Duplicate("missing", "x")
	assert.ErrorIs(t, err, domain.ErrPortfolioNotFound)
}

func TestNameTaken(t *testing.T) {
	doc := &domain.Document{Portfolios: []domain.Portfolio{{ID: "a", Name: "Backend"}, {ID: "b", Name: "Data"}}}
	reg := newRegistry(doc)

	assert.True(t, reg.NameTaken(" backend ", ""))
	assert.False(t, reg.NameTaken("backend", "a"))
	assert.True(t, reg.NameTaken("DATA", "a"))
	assert.False(t, reg.NameTaken("Frontend", ""))
}

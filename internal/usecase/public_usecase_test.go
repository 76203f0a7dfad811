package usecase_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestPublicGates(t *testing.T) {
	anon := context.Background()

	t.Run("maintenance is checked before public access", func(t *testing.T) {
		store := newStore(t, func(doc *domain.Document) {
			doc.Settings.MaintenanceMode = boolPtr(true)
			doc.Settings.AllowPublicAccess = boolPtr(false)
		})
		uc := usecase.NewPublicUsecase(store)

		_, err := uc.Current(anon)
		assertCode(t, err, http.StatusServiceUnavailable)
		_, err = uc.ByID(anon, "main")
		assertCode(t, err, http.StatusServiceUnavailable)
	})

	t.Run("public access disabled", func(t *testing.T) {
		store := newStore(t, func(doc *domain.Document) { doc.Settings.AllowPublicAccess = boolPtr(false) })
		_, err := usecase.NewPublicUsecase(store).Current(anon)
		assertCode(t, err, http.StatusForbidden)
	})

	t.Run("admins bypass both gates", func(t *testing.T) {
		store := newStore(t, func(doc *domain.Document) {
			doc.Settings.MaintenanceMode = boolPtr(true)
			doc.Settings.AllowPublicAccess = boolPtr(false)
		})
		view, err := usecase.NewPublicUsecase(store).Current(adminCtx())
		require.NoError(t, err)
		assert.Equal(t, "main", view.ID)
	})
}

func TestPublicCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("active portfolio with site settings", func(t *testing.T) {
		view, err := usecase.NewPublicUsecase(newStore(t)).Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Main Portfolio", view.Name)
		assert.Equal(t, "My Awesome Portfolio", view.Settings.SiteTitle)
	})

	t.Run("legacy view never carries credentials", func(t *testing.T) {
		view, err := usecase.NewPublicUsecase(newStore(t, withoutActivePortfolio)).Current(ctx)
		require.NoError(t, err)
		assert.Empty(t, view.ID)
		assert.Equal(t, "Your Name", view.About.HeroTitle)

		raw, err := json.Marshal(view)
		require.NoError(t, err)
		assert.False(t, strings.Contains(string(raw), "password_hash"))
	})

	t.Run("by id", func(t *testing.T) {
		uc := usecase.NewPublicUsecase(newStore(t))
		view, err := uc.ByID(ctx, "main")
		require.NoError(t, err)
		assert.Equal(t, "main", view.ID)

		_, err = uc.ByID(ctx, "nope")
		assertCode(t, err, http.StatusNotFound)
	})
}

func TestSubmitContact(t *testing.T) {
	ctx := context.Background()
	valid := domain.ContactRequest{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello there, nice site!"}

	cases := []struct {
		name   string
		mutate func(r *domain.ContactRequest)
	}{
		{"short name", func(r *domain.ContactRequest) { r.Name = "A" }},
		{"long name", func(r *domain.ContactRequest) { r.Name = strings.Repeat("a", 51) }},
		{"bad email", func(r *domain.ContactRequest) { r.Email = "ada@example" }},
		{"short message", func(r *domain.ContactRequest) { r.Message = "  too short  " }},
		{"long message", func(r *domain.ContactRequest) { r.Message = strings.Repeat("m", 1001) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			audit := newAudit()
			req := valid
			tc.mutate(&req)

			err := usecase.NewContactUsecase(audit).SubmitContact(ctx, &req)
			assertCode(t, err, http.StatusBadRequest)
			audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}

	t.Run("accepted submission is audited", func(t *testing.T) {
		audit := newAudit()
		req := valid
		require.NoError(t, usecase.NewContactUsecase(audit).SubmitContact(ctx, &req))
		audit.AssertCalled(t, "Append", mock.Anything, mock.MatchedBy(func(rec domain.AuditRecord) bool {
			return rec.Action == "contact_form" && rec.Section == "public" && rec.Details == "name=Ada, email=ada@example.com"
		}))
	})
}

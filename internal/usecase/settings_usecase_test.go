package usecase_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func activeIDs(doc *domain.Document) []string {
	ids := []string{}
	for _, p := range doc.Portfolios {
		if p.IsActive {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func TestCreateThenActivate(t *testing.T) {
	ctx := adminCtx()
	store := newStore(t)
	audit := newAudit()
	settings := usecase.NewSettingsUsecase(store, audit)
	content := newContent(store, audit, usecase.ContentConfig{})

	created, err := settings.CreatePortfolio(ctx, domain.PortfolioInput{Name: "Research", Description: "Lab work"})
	require.NoError(t, err)
	assert.Len(t, created.ID, 8)
	assert.False(t, created.IsActive)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	require.NoError(t, settings.SetActivePortfolio(ctx, created.ID))
	require.NoError(t, settings.SetActivePortfolio(ctx, created.ID), "idempotent")
	assert.Equal(t, []string{created.ID}, activeIDs(load(t, store)))

	require.NoError(t, content.AddSkill(ctx, domain.SkillInput{Type: "technical", Name: "Microscopy"}))
	doc := load(t, store)
	assert.Equal(t, "Microscopy", doc.Portfolios[1].Skills.Technical[0].Name)
	assert.Len(t, doc.Portfolios[0].Skills.Technical, 2)

	stats, err := settings.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Research", stats.ActivePortfolioName)
	assert.Equal(t, 1, stats.Skills)

	assertCode(t, settings.SetActivePortfolio(ctx, "nope"), http.StatusNotFound)
	assert.Equal(t, []string{created.ID}, activeIDs(load(t, store)))
	audit.AssertCalled(t, "Append", mock.Anything, auditedAction("set_active", "portfolio"))
}

func TestDuplicatePortfolio(t *testing.T) {
	ctx := adminCtx()
	store := newStore(t)
	settings := usecase.NewSettingsUsecase(store, newAudit())

	dup, err := settings.DuplicatePortfolio(ctx, "main", "Copy of Main")
	require.NoError(t, err)
	assert.NotEqual(t, "main", dup.ID)
	assert.False(t, dup.IsActive)

	doc := load(t, store)
	require.Len(t, doc.Portfolios, 2)
	assert.Equal(t, doc.Portfolios[0].Skills, doc.Portfolios[1].Skills)
	assert.Equal(t, doc.Portfolios[0].About, doc.Portfolios[1].About)
	assert.Equal(t, []string{"main"}, activeIDs(doc))

	_, err = settings.DuplicatePortfolio(ctx, "main", "copy OF main")
	assertCode(t, err, http.StatusConflict)
	_, err = settings.DuplicatePortfolio(ctx, "missing", "Other")
	assertCode(t, err, http.StatusNotFound)
	_, err = settings.DuplicatePortfolio(ctx, "main", "  ")
	assertCode(t, err, http.StatusBadRequest)
}

func TestDeletePortfolioGuards(t *testing.T) {
	ctx := adminCtx()
	store := newStore(t)
	audit := newAudit()
	settings := usecase.NewSettingsUsecase(store, audit)

	assertCode(t, settings.DeletePortfolio(ctx, "main"), http.StatusConflict)

	other, err := settings.CreatePortfolio(ctx, domain.PortfolioInput{Name: "Other"})
	require.NoError(t, err)

	assertCode(t, settings.DeletePortfolio(ctx, "main"), http.StatusConflict)
	assertCode(t, settings.DeletePortfolio(ctx, "ghost"), http.StatusNotFound)
	require.NoError(t, settings.DeletePortfolio(ctx, other.ID))

	doc := load(t, store)
	require.Len(t, doc.Portfolios, 1)
	assert.Equal(t, "main", doc.Portfolios[0].ID)
	audit.AssertNumberOfCalls(t, "Append", 2)
}

func TestPortfolioNamesAreUnique(t *testing.T) {
	ctx := adminCtx()
	settings := usecase.NewSettingsUsecase(newStore(t), newAudit())

	_, err := settings.CreatePortfolio(ctx, domain.PortfolioInput{Name: "main portfolio"})
	assertCode(t, err, http.StatusConflict)

	other, err := settings.CreatePortfolio(ctx, domain.PortfolioInput{Name: "Other"})
	require.NoError(t, err)
	assertCode(t, settings.EditPortfolio(ctx, other.ID, domain.PortfolioInput{Name: "MAIN PORTFOLIO"}), http.StatusConflict)
	require.NoError(t, settings.EditPortfolio(ctx, other.ID, domain.PortfolioInput{Name: "other", Description: "renamed"}))
	assertCode(t, settings.EditPortfolio(ctx, "ghost", domain.PortfolioInput{Name: "Ghost"}), http.StatusNotFound)
}

func TestUpdateSystemSettings(t *testing.T) {
	ctx := adminCtx()

	t.Run("unknown default portfolio writes nothing", func(t *testing.T) {
		store := newStore(t)
		settings := usecase.NewSettingsUsecase(store, newAudit())
		before := fileBytes(t, store)

		err := settings.UpdateSystemSettings(ctx, domain.SystemSettingsInput{DefaultPortfolio: "ghost", MaintenanceMode: true})
		assertCode(t, err, http.StatusNotFound)
		assert.Equal(t, before, fileBytes(t, store))
	})

	t.Run("default portfolio becomes active and defaults fill in", func(t *testing.T) {
		store := newStore(t)
		settings := usecase.NewSettingsUsecase(store, newAudit())
		other, err := settings.CreatePortfolio(ctx, domain.PortfolioInput{Name: "Other"})
		require.NoError(t, err)

		require.NoError(t, settings.UpdateSystemSettings(ctx, domain.SystemSettingsInput{DefaultPortfolio: other.ID}))

		doc := load(t, store)
		assert.Equal(t, []string{other.ID}, activeIDs(doc))
		assert.False(t, doc.Settings.PublicAccessAllowed())
		assert.Equal(t, "Default Dark", doc.Settings.DefaultTheme)
		assert.Equal(t, "center", doc.Settings.SectionAlignment)
		assert.Equal(t, "My Awesome Portfolio", doc.Settings.SiteTitle)
	})
}

func TestSiteSettingsAndExport(t *testing.T) {
	ctx := adminCtx()
	store := newStore(t)
	settings := usecase.NewSettingsUsecase(store, newAudit())

	require.NoError(t, settings.UpdateSiteSettings(ctx, domain.SiteSettingsInput{SiteTitle: "  Ada's Site  "}))

	view, err := settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada's Site", view.Settings.SiteTitle)
	require.Len(t, view.Portfolios, 1)
	assert.True(t, view.Portfolios[0].IsActive)

	data, err := settings.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, fileBytes(t, store), data)

	var decoded domain.Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "admin", decoded.AdminCredentials.Username)

	_, err = settings.Export(context.Background())
	assertCode(t, err, http.StatusUnauthorized)
}

func TestExportWorkbook(t *testing.T) {
	ctx := adminCtx()
	store := newStore(t, func(doc *domain.Document) {
		doc.Portfolios[0].Experience.Education = []domain.Education{{Degree: "BSc Biology", University: "Example University", Year: "2022", GPA: "3.8"}}
	})
	settings := usecase.NewSettingsUsecase(store, newAudit())

	data, err := settings.ExportWorkbook(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{usecase.SheetSkills, usecase.SheetProjects, usecase.SheetExperience, usecase.SheetEducation}, f.GetSheetList())

	skills, err := f.GetRows(usecase.SheetSkills)
	require.NoError(t, err)
	require.Len(t, skills, 4)
	assert.Equal(t, []string{"TYPE", "NAME", "DESCRIPTION"}, skills[0])
	assert.Equal(t, []string{"technical", "Go", "HTTP services, CLIs and data plumbing."}, skills[1])
	assert.Equal(t, "soft", skills[3][0])

	projects, err := f.GetRows(usecase.SheetProjects)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Go, JSON", projects[1][2])

	exp, err := f.GetRows(usecase.SheetExperience)
	require.NoError(t, err)
	require.Len(t, exp, 2)
	assert.Equal(t, []string{"internship", "Software Intern", "Example Labs", "May 2023 - August 2023", "Built internal tools."}, exp[1])

	gpa, err := f.GetCellValue(usecase.SheetEducation, "D2")
	require.NoError(t, err)
	assert.Equal(t, "3.8", gpa)

	_, err = settings.ExportWorkbook(context.Background())
	assertCode(t, err, http.StatusUnauthorized)
}

func TestDashboardWithoutPortfolios(t *testing.T) {
	store := newStore(t, func(doc *domain.Document) { doc.Portfolios = []domain.Portfolio{} })
	stats, err := usecase.NewSettingsUsecase(store, newAudit()).Dashboard(adminCtx())
	require.NoError(t, err)
	assert.Equal(t, "None", stats.ActivePortfolioName)
	assert.Equal(t, 3, stats.Skills)
	assert.Equal(t, 1, stats.Projects)
}

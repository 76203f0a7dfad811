package usecase

import (
	"context"
	"fmt"
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
)

const (
	defaultTheme            = "Default Dark"
	defaultSectionAlignment = "center"
)

type settingsUsecase struct {
	docs  domain.DocumentRepository
	audit auditor
}

func NewSettingsUsecase(docs domain.DocumentRepository, audit domain.AuditLogger) domain.SettingsUsecase {
	return &settingsUsecase{docs: docs, audit: newAuditor(audit)}
}

func summaryOf(p *domain.Portfolio) *domain.PortfolioSummary {
	return &domain.PortfolioSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (u *settingsUsecase) load(ctx context.Context) (*domain.Document, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	doc, err := u.docs.Load(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return doc, nil
}

// Dashboard counts the content of the active portfolio, falling back to the
// first one. Without portfolios the legacy sections are counted.
func (u *settingsUsecase) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	doc, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	name, skills, projects, experience := reportContent(doc)

	stats := &domain.DashboardStats{ActivePortfolioName: "None"}
	if name != "" {
		stats.ActivePortfolioName = name
	}
	stats.Projects = len(projects)
	stats.Skills = len(skills.Technical) + len(skills.Soft)
	stats.Experience = len(experience.Internships) + len(experience.Thesis) + len(experience.Certifications)
	stats.Education = len(experience.Education)
	return stats, nil
}

func (u *settingsUsecase) GetSettings(ctx context.Context) (*domain.SettingsView, error) {
	doc, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	view := &domain.SettingsView{Portfolios: make([]domain.PortfolioSummary, 0, len(doc.Portfolios))}
	if doc.Settings != nil {
		view.Settings = *doc.Settings
	}
	for i := range doc.Portfolios {
		view.Portfolios = append(view.Portfolios, *summaryOf(&doc.Portfolios[i]))
	}
	return view, nil
}

// UpdateSystemSettings stores the site flags. A non-empty default portfolio
// also becomes the active one and must exist.
func (u *settingsUsecase) UpdateSystemSettings(ctx context.Context, in domain.SystemSettingsInput) error {
	if in.DefaultTheme == "" {
		in.DefaultTheme = defaultTheme
	}
	if in.SectionAlignment == "" {
		in.SectionAlignment = defaultSectionAlignment
	}
	return applyChange(ctx, u.docs, u.audit, "system_settings", "update", func(doc *domain.Document, reg *portfolio.Registry) (string, error) {
		if in.DefaultPortfolio != "" && !reg.SetActive(in.DefaultPortfolio) {
			return "", domain.ErrPortfolioNotFound
		}
		if doc.Settings == nil {
			doc.Settings = &domain.Settings{}
		}
		defaultID, allow, maintenance := in.DefaultPortfolio, in.AllowPublicAccess, in.MaintenanceMode
		doc.Settings.DefaultPortfolio = &defaultID
		doc.Settings.AllowPublicAccess = &allow
		doc.Settings.MaintenanceMode = &maintenance
		doc.Settings.DefaultTheme = in.DefaultTheme
		doc.Settings.SectionAlignment = in.SectionAlignment
		return fmt.Sprintf("default_portfolio=%s, allow_public_access=%t, maintenance_mode=%t, default_theme=%s, section_alignment=%s",
			in.DefaultPortfolio, in.AllowPublicAccess, in.MaintenanceMode, in.DefaultTheme, in.SectionAlignment), nil
	})
}

func (u *settingsUsecase) UpdateSiteSettings(ctx context.Context, in domain.SiteSettingsInput) error {
	title := strings.TrimSpace(in.SiteTitle)
	return applyChange(ctx, u.docs, u.audit, "settings", "update", func(doc *domain.Document, _ *portfolio.Registry) (string, error) {
		if doc.Settings == nil {
			doc.Settings = &domain.Settings{}
		}
		doc.Settings.SiteTitle = title
		return "site_title=" + title, nil
	})
}

func (u *settingsUsecase) CreatePortfolio(ctx context.Context, in domain.PortfolioInput) (*domain.PortfolioSummary, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.BadRequest("Portfolio name is required.")
	}
	var created *domain.PortfolioSummary
	err := applyChange(ctx, u.docs, u.audit, "portfolio", "add", func(_ *domain.Document, reg *portfolio.Registry) (string, error) {
		if reg.NameTaken(name, "") {
			return "", domain.ErrDuplicateName
		}
		created = summaryOf(reg.Create(name, strings.TrimSpace(in.Description)))
		return "name=" + name, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (u *settingsUsecase) EditPortfolio(ctx context.Context, id string, in domain.PortfolioInput) error {
	name := strings.TrimSpace(in.Name)
	if id == "" || name == "" {
		return apperror.BadRequest("Portfolio name is required.")
	}
	description := strings.TrimSpace(in.Description)
	return applyChange(ctx, u.docs, u.audit, "portfolio", "edit", func(_ *domain.Document, reg *portfolio.Registry) (string, error) {
		if _, ok := reg.GetByID(id); !ok {
			return "", domain.ErrPortfolioNotFound
		}
		if reg.NameTaken(name, id) {
			return "", domain.ErrDuplicateName
		}
		reg.Update(id, portfolio.PortfolioPatch{Name: &name, Description: &description})
		return fmt.Sprintf("id=%s, name=%s", id, name), nil
	})
}

func (u *settingsUsecase) SetActivePortfolio(ctx context.Context, id string) error {
	if id == "" {
		return apperror.BadRequest("Portfolio ID is required.")
	}
	return applyChange(ctx, u.docs, u.audit, "portfolio", "set_active", func(_ *domain.Document, reg *portfolio.Registry) (string, error) {
		if !reg.SetActive(id) {
			return "", domain.ErrPortfolioNotFound
		}
		return "id=" + id, nil
	})
}

func (u *settingsUsecase) DeletePortfolio(ctx context.Context, id string) error {
	if id == "" {
		return apperror.BadRequest("Portfolio ID is required.")
	}
	return applyChange(ctx, u.docs, u.audit, "portfolio", "delete", func(_ *domain.Document, reg *portfolio.Registry) (string, error) {
		if reg.Len() <= 1 {
			return "", domain.ErrLastPortfolio
		}
		p, ok := reg.GetByID(id)
		if !ok {
			return "", domain.ErrPortfolioNotFound
		}
		if p.IsActive {
			return "", domain.ErrActivePortfolio
		}
		reg.Delete(id)
		return "id=" + id, nil
	})
}

func (u *settingsUsecase) DuplicatePortfolio(ctx context.Context, id, newName string) (*domain.PortfolioSummary, error) {
	newName = strings.TrimSpace(newName)
	if id == "" || newName == "" {
		return nil, apperror.BadRequest("Portfolio ID and new name are required.")
	}
	var dup *domain.PortfolioSummary
	err := applyChange(ctx, u.docs, u.audit, "portfolio", "duplicate", func(_ *domain.Document, reg *portfolio.Registry) (string, error) {
		if reg.NameTaken(newName, "") {
			return "", domain.ErrDuplicateName
		}
		p, err := reg.Duplicate(id, newName)
		if err != nil {
			return "", err
		}
		dup = summaryOf(p)
		return fmt.Sprintf("id=%s, new_name=%s", id, newName), nil
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}

func (u *settingsUsecase) Export(ctx context.Context) ([]byte, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	data, err := u.docs.Export(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	logger.Log.Info("document exported", "bytes", len(data), "user", domain.ActorFromContext(ctx))
	return data, nil
}

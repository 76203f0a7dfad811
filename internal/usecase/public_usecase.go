package usecase

import (
	"context"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/pkg/apperror"
)

type publicUsecase struct {
	docs domain.DocumentRepository
}

func NewPublicUsecase(docs domain.DocumentRepository) domain.PublicUsecase {
	return &publicUsecase{docs: docs}
}

// load reads the document and applies the site gates. Maintenance wins over
// the public-access flag; an admin session bypasses both.
func (u *publicUsecase) load(ctx context.Context) (*domain.Document, error) {
	doc, err := u.docs.Load(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if domain.AuthFromContext(ctx).Authenticated {
		return doc, nil
	}
	if doc.Settings.InMaintenance() {
		return nil, apperror.ServiceUnavailable("Site is under maintenance")
	}
	if !doc.Settings.PublicAccessAllowed() {
		return nil, apperror.Forbidden("Public access is disabled")
	}
	return doc, nil
}

func siteSettings(doc *domain.Document) domain.Settings {
	if doc.Settings == nil {
		return domain.Settings{}
	}
	return *doc.Settings
}

func publicView(p *domain.Portfolio, settings domain.Settings) *domain.PublicPortfolio {
	return &domain.PublicPortfolio{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		About:          p.About,
		ProfilePicture: p.ProfilePicture,
		Skills:         p.Skills,
		Projects:       p.Projects,
		Experience:     p.Experience,
		Contact:        p.Contact,
		Settings:       settings,
	}
}

// legacyView renders the top-level sections used before portfolios existed.
func legacyView(doc *domain.Document) *domain.PublicPortfolio {
	t := target{doc: doc}
	return &domain.PublicPortfolio{
		About:          *t.about(),
		ProfilePicture: *t.profilePicture(),
		Skills:         *t.skills(),
		Projects:       *t.projects(),
		Experience:     *t.experience(),
		Contact:        *t.contact(),
		Settings:       siteSettings(doc),
	}
}

// Current returns the active portfolio, or the legacy sections when none is active.
func (u *publicUsecase) Current(ctx context.Context) (*domain.PublicPortfolio, error) {
	doc, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	if p, ok := portfolio.NewRegistry(doc).GetActive(); ok {
		return publicView(p, siteSettings(doc)), nil
	}
	return legacyView(doc), nil
}

func (u *publicUsecase) ByID(ctx context.Context, id string) (*domain.PublicPortfolio, error) {
	doc, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := portfolio.NewRegistry(doc).GetByID(id)
	if !ok {
		return nil, apperror.NotFound("Portfolio not found")
	}
	return publicView(p, siteSettings(doc)), nil
}

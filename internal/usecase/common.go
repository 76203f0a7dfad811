package usecase

import (
	"context"
	"errors"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/metrics"
)

// requireAdmin guards every admin operation, independent of the HTTP middleware.
func requireAdmin(ctx context.Context) error {
	if !domain.AuthFromContext(ctx).Authenticated {
		return apperror.Unauthorized("Admin session required")
	}
	return nil
}

// toAppError maps domain sentinels onto HTTP-aware errors. Anything unknown
// is a storage failure and surfaces as 500.
func toAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, domain.ErrPortfolioNotFound):
		return apperror.NotFound("Portfolio not found").Wrap(err)
	case errors.Is(err, domain.ErrItemNotFound):
		return apperror.NotFound("Item not found").Wrap(err)
	case errors.Is(err, domain.ErrUnknownCategory):
		return apperror.BadRequest("Unknown experience category").Wrap(err)
	case errors.Is(err, domain.ErrUnknownSkillType):
		return apperror.BadRequest("Skill type must be technical or soft").Wrap(err)
	case errors.Is(err, domain.ErrDuplicateName):
		return apperror.Conflict("A portfolio with this name already exists. Please choose a unique name.").Wrap(err)
	case errors.Is(err, domain.ErrLastPortfolio):
		return apperror.Conflict("Cannot delete the only portfolio. At least one portfolio must exist.").Wrap(err)
	case errors.Is(err, domain.ErrActivePortfolio):
		return apperror.Conflict("Cannot delete the active portfolio. Please set another portfolio as active first.").Wrap(err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperror.Unauthorized("Invalid username or password").Wrap(err)
	}
	return apperror.Internal(err)
}

// applyChange runs fn inside a document update. Once the document is saved
// the change is audited and counted; fn returns the audit details.
func applyChange(
	ctx context.Context,
	docs domain.DocumentRepository,
	audit auditor,
	section, action string,
	fn func(doc *domain.Document, reg *portfolio.Registry) (string, error),
) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	var details string
	err := docs.Update(ctx, func(doc *domain.Document) error {
		d, err := fn(doc, portfolio.NewRegistry(doc))
		if err != nil {
			return err
		}
		details = d
		return nil
	})
	if err != nil {
		return toAppError(err)
	}
	audit.record(ctx, action, section, details)
	metrics.RecordAdminAction(section, action)
	return nil
}

// auditor appends audit records after a write has been persisted. A failed
// append is logged and counted, never returned.
type auditor struct {
	log domain.AuditLogger
	now func() time.Time
}

func newAuditor(log domain.AuditLogger) auditor {
	return auditor{log: log, now: time.Now}
}

func (a auditor) record(ctx context.Context, action, section, details string) {
	if a.log == nil {
		return
	}
	rec := domain.AuditRecord{
		Timestamp: a.now(),
		Username:  domain.ActorFromContext(ctx),
		Action:    action,
		Section:   section,
		Details:   details,
	}
	if err := a.log.Append(ctx, rec); err != nil {
		metrics.AuditWriteErrors.Inc()
		logger.Log.Warn("audit append failed",
			"action", action,
			"section", section,
			"error", err,
		)
	}
}

// target is the set of sub-documents an admin edit applies to: the active
// portfolio's, or the legacy top-level ones when no portfolio is active.
type target struct {
	doc       *domain.Document
	portfolio *domain.Portfolio
}

func resolveTarget(doc *domain.Document, reg *portfolio.Registry) target {
	p, _ := reg.GetActive()
	return target{doc: doc, portfolio: p}
}

func (t target) skills() *domain.Skills {
	if t.portfolio != nil {
		return &t.portfolio.Skills
	}
	if t.doc.Skills == nil {
		t.doc.Skills = &domain.Skills{Technical: []domain.Skill{}, Soft: []domain.Skill{}}
	}
	return t.doc.Skills
}

func (t target) projects() *[]domain.Project {
	if t.portfolio != nil {
		return &t.portfolio.Projects
	}
	if t.doc.Projects == nil {
		t.doc.Projects = &[]domain.Project{}
	}
	return t.doc.Projects
}

func (t target) experience() *domain.Experience {
	if t.portfolio != nil {
		return &t.portfolio.Experience
	}
	if t.doc.Experience == nil {
		t.doc.Experience = &domain.Experience{
			Internships:    []domain.Internship{},
			Thesis:         []domain.Thesis{},
			Certifications: []domain.Certification{},
		}
	}
	return t.doc.Experience
}

func (t target) contact() *domain.Contact {
	if t.portfolio != nil {
		return &t.portfolio.Contact
	}
	if t.doc.Contact == nil {
		t.doc.Contact = &domain.Contact{}
	}
	return t.doc.Contact
}

func (t target) about() *domain.About {
	if t.portfolio != nil {
		return &t.portfolio.About
	}
	if t.doc.About == nil {
		t.doc.About = &domain.About{HeroButtons: []domain.HeroButton{}}
	}
	return t.doc.About
}

func (t target) profilePicture() *domain.ProfilePicture {
	if t.portfolio != nil {
		return &t.portfolio.ProfilePicture
	}
	if t.doc.ProfilePicture == nil {
		t.doc.ProfilePicture = &domain.ProfilePicture{}
	}
	return t.doc.ProfilePicture
}

func removeAt[T any](items []T, index int) ([]T, error) {
	if index < 0 || index >= len(items) {
		return items, domain.ErrItemNotFound
	}
	return append(items[:index], items[index+1:]...), nil
}

func checkIndex[T any](items []T, index int) error {
	if index < 0 || index >= len(items) {
		return domain.ErrItemNotFound
	}
	return nil
}

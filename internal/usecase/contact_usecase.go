package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/metrics"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"
)

const (
	contactNameMin    = 2
	contactNameMax    = 50
	contactMessageMin = 10
	contactMessageMax = 1000
)

type contactUsecase struct {
	audit auditor
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(audit domain.AuditLogger) domain.ContactUsecase {
	return &contactUsecase{audit: newAuditor(audit)}
}

// SubmitContact validates the message and records it in the audit log.
// Rejected submissions leave no record.
func (uc *contactUsecase) SubmitContact(ctx context.Context, req *domain.ContactRequest) error {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)

	if err := checkContact(name, email, message); err != nil {
		metrics.RecordContactSubmission(false)
		return err
	}

	uc.audit.record(ctx, "contact_form", "public", fmt.Sprintf("name=%s, email=%s", name, email))
	metrics.RecordContactSubmission(true)
	logger.Log.Debug("contact form accepted", "email", security.MaskEmail(email))
	return nil
}

func checkContact(name, email, message string) error {
	if n := utf8.RuneCountInString(name); n < contactNameMin || n > contactNameMax {
		return apperror.BadRequest(fmt.Sprintf("Name must be between %d and %d characters", contactNameMin, contactNameMax))
	}
	if !validation.IsContactEmail(email) {
		return apperror.BadRequest("Please enter a valid email address")
	}
	if n := utf8.RuneCountInString(message); n < contactMessageMin || n > contactMessageMax {
		return apperror.BadRequest(fmt.Sprintf("Message must be between %d and %d characters", contactMessageMin, contactMessageMax))
	}
	return nil
}

package domain

import "context"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Subject string `form:"subject" json:"subject"`
	Message string `form:"message" json:"message"`
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SubmitContact validates and records a contact form message. Nothing is emailed.
	SubmitContact(ctx context.Context, req *ContactRequest) error
}

package domain

import (
	"context"
	"time"
)

type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type AuthUsecase interface {
	// Login verifies the admin credentials and returns a signed session token.
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context)
	IssueToken(subject string) (string, error)
	ParseToken(token string) (AuthContext, error)
	SessionTTL() time.Duration
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
	// ChangeUsername returns a fresh session token for the new subject.
	ChangeUsername(ctx context.Context, in ChangeUsernameInput) (string, error)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "portfolio-admin"

type AuthConfig struct {
	Secret            []byte
	TTL               time.Duration
	MinPasswordLength int
}

type authUsecase struct {
	docs   domain.DocumentRepository
	audit  auditor
	secLog *security.SecurityLogger
	cfg    AuthConfig
	now    func() time.Time
}

func NewAuthUsecase(docs domain.DocumentRepository, audit domain.AuditLogger, secLog *security.SecurityLogger, cfg AuthConfig) domain.AuthUsecase {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 6
	}
	return &authUsecase{docs: docs, audit: newAuditor(audit), secLog: secLog, cfg: cfg, now: time.Now}
}

// Login checks the stored admin credentials. Both comparisons always run so
// a wrong username costs the same as a wrong password.
func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	doc, err := u.docs.Load(ctx)
	if err != nil {
		return "", apperror.Internal(err)
	}
	creds := doc.AdminCredentials

	userOK := creds.Username != "" && security.ConstantTimeCompare(username, creds.Username)
	passOK := security.VerifyPassword(creds.PasswordHash, password)
	if !userOK || !passOK {
		u.audit.record(ctx, "failed_login", "auth", "username="+username)
		return "", toAppError(domain.ErrInvalidCredentials)
	}

	if security.NeedsRehash(creds.PasswordHash) {
		u.rehash(ctx, password)
	}

	token, err := u.IssueToken(creds.Username)
	if err != nil {
		return "", apperror.Internal(err)
	}
	authed := domain.WithAuth(ctx, domain.AuthContext{Subject: creds.Username, Authenticated: true})
	u.audit.record(authed, "login", "auth", "username="+creds.Username)
	return token, nil
}

// rehash upgrades a legacy hash to bcrypt after a successful login. Failure
// leaves the old hash in place.
func (u *authUsecase) rehash(ctx context.Context, password string) {
	hash, err := security.HashPassword(password)
	if err != nil {
		logger.Log.Warn("password rehash failed", "error", err)
		return
	}
	err = u.docs.Update(ctx, func(doc *domain.Document) error {
		doc.AdminCredentials.PasswordHash = hash
		return nil
	})
	if err != nil {
		logger.Log.Warn("password rehash not saved", "error", err)
		return
	}
	logger.Log.Info("legacy password hash upgraded to bcrypt")
}

func (u *authUsecase) Logout(ctx context.Context) {
	u.audit.record(ctx, "logout", "auth", "username="+domain.ActorFromContext(ctx))
}

func (u *authUsecase) SessionTTL() time.Duration {
	return u.cfg.TTL
}

func (u *authUsecase) IssueToken(subject string) (string, error) {
	now := u.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(u.cfg.TTL)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.cfg.Secret)
}

func (u *authUsecase) ParseToken(tokenString string) (domain.AuthContext, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return u.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(u.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return domain.AuthContext{}, errors.Join(domain.ErrNotAuthenticated, err)
	}
	return domain.AuthContext{Subject: claims.Subject, Authenticated: true}, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, in domain.ChangePasswordInput) error {
	var username string
	err := applyChange(ctx, u.docs, u.audit, "auth", "change_password", func(doc *domain.Document, _ *portfolio.Registry) (string, error) {
		creds := &doc.AdminCredentials
		switch {
		case !security.VerifyPassword(creds.PasswordHash, in.CurrentPassword):
			return "", apperror.Forbidden("Current password is incorrect.")
		case in.NewPassword != in.ConfirmPassword:
			return "", apperror.BadRequest("New password and confirm password do not match.")
		case len(in.NewPassword) < u.cfg.MinPasswordLength:
			return "", apperror.BadRequest(fmt.Sprintf("New password must be at least %d characters long.", u.cfg.MinPasswordLength))
		case len(in.NewPassword) > security.MaxPasswordBytes:
			return "", apperror.BadRequest(fmt.Sprintf("New password must be at most %d bytes long.", security.MaxPasswordBytes))
		}
		hash, err := security.HashPassword(in.NewPassword)
		if err != nil {
			return "", err
		}
		creds.PasswordHash = hash
		username = creds.Username
		return "username=" + username, nil
	})
	if err != nil {
		return err
	}
	u.secLog.LogCredentialsChanged(ctx, username, "password")
	return nil
}

func (u *authUsecase) ChangeUsername(ctx context.Context, in domain.ChangeUsernameInput) (string, error) {
	newUsername := strings.TrimSpace(in.NewUsername)
	err := applyChange(ctx, u.docs, u.audit, "auth", "change_username", func(doc *domain.Document, _ *portfolio.Registry) (string, error) {
		creds := &doc.AdminCredentials
		if !security.VerifyPassword(creds.PasswordHash, in.CurrentPassword) {
			return "", apperror.Forbidden("Current password is incorrect.")
		}
		if newUsername == "" {
			return "", apperror.BadRequest("New username cannot be empty.")
		}
		creds.Username = newUsername
		return "new_username=" + newUsername, nil
	})
	if err != nil {
		return "", err
	}
	u.secLog.LogCredentialsChanged(ctx, newUsername, "username")

	token, err := u.IssueToken(newUsername)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return token, nil
}

package domain

import "context"

type CtxKey string

const (
	KeyAuth      CtxKey = "Auth"
	KeyRequestID CtxKey = "RequestID"
)

// AuthContext is the request-scoped authentication state handed to usecases.
type AuthContext struct {
	Subject       string
	Authenticated bool
}

// WithAuth stores the authentication state in ctx.
func WithAuth(ctx context.Context, auth AuthContext) context.Context {
	return context.WithValue(ctx, KeyAuth, auth)
}

// AuthFromContext returns the authentication state, or an anonymous one.
func AuthFromContext(ctx context.Context) AuthContext {
	auth, _ := ctx.Value(KeyAuth).(AuthContext)
	return auth
}

// ActorFromContext names the actor for audit records.
func ActorFromContext(ctx context.Context) string {
	auth := AuthFromContext(ctx)
	if !auth.Authenticated || auth.Subject == "" {
		return "unknown"
	}
	return auth.Subject
}

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, KeyRequestID, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)
	return id
}

package domain

import "context"

// PublicUsecase resolves what the public site shows. Maintenance and
// public-access gates apply to callers that are not authenticated.
type PublicUsecase interface {
	Current(ctx context.Context) (*PublicPortfolio, error)
	ByID(ctx context.Context, id string) (*PublicPortfolio, error)
}

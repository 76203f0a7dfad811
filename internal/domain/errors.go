package domain

import "errors"

var (
	ErrPortfolioNotFound  = errors.New("portfolio not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrUnknownCategory    = errors.New("unknown experience category")
	ErrUnknownSkillType   = errors.New("unknown skill type")
	ErrDuplicateName      = errors.New("a portfolio with this name already exists")
	ErrLastPortfolio      = errors.New("cannot delete the only portfolio")
	ErrActivePortfolio    = errors.New("cannot delete the active portfolio")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

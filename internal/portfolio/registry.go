// Package portfolio manages the list of named portfolios inside a loaded
// document. It never touches storage; callers persist the document.
package portfolio

import (
	"fmt"
	"strings"
	"time"

	"portfolio-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"
)

// TimeLayout is the format of created_at and updated_at.
const TimeLayout = time.RFC3339

const idLength = 8

// Registry operates on doc.Portfolios in place. Pointers it returns stay
// valid until the next Create, Duplicate or Delete.
type Registry struct {
	doc   *domain.Document
	now   func() time.Time
	newID func() string
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(r *Registry) { r.newID = newID }
}

func NewRegistry(doc *domain.Document, opts ...Option) *Registry {
	r := &Registry{
		doc:   doc,
		now:   time.Now,
		newID: func() string { return uuid.NewString()[:idLength] },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) timestamp() string {
	return r.now().UTC().Format(TimeLayout)
}

// uniqueID draws ids until one is unused.
func (r *Registry) uniqueID() string {
	for {
		id := r.newID()
		if _, ok := r.GetByID(id); !ok {
			return id
		}
	}
}

// DefaultContent is the placeholder content a new portfolio starts with.
func DefaultContent() domain.Portfolio {
	return domain.Portfolio{
		About: domain.About{
			HeroTitle:       "New Portfolio",
			HeroSubtitle:    "Portfolio Subtitle",
			HeroDescription: "Portfolio description",
			AboutText:       "About text for this portfolio",
			Highlights: [domain.MaxHighlights]domain.Highlight{
				{Emoji: "🌟", Title: "Highlight 1", Description: "Description for highlight 1"},
				{Emoji: "💡", Title: "Highlight 2", Description: "Description for highlight 2"},
				{Emoji: "🚀", Title: "Highlight 3", Description: "Description for highlight 3"},
			},
			HeroButtons: []domain.HeroButton{},
		},
		Skills: domain.Skills{
			Technical: []domain.Skill{},
			Soft:      []domain.Skill{},
		},
		Projects: []domain.Project{},
		Experience: domain.Experience{
			Internships:    []domain.Internship{},
			Thesis:         []domain.Thesis{},
			Certifications: []domain.Certification{},
		},
	}
}

// Create appends an inactive portfolio with placeholder content.
func (r *Registry) Create(name, description string) *domain.Portfolio {
	p := DefaultContent()
	p.ID = r.uniqueID()
	p.Name = name
	p.Description = description
	p.CreatedAt = r.timestamp()
	p.UpdatedAt = p.CreatedAt

	r.doc.Portfolios = append(r.doc.Portfolios, p)
	return &r.doc.Portfolios[len(r.doc.Portfolios)-1]
}

func (r *Registry) GetByID(id string) (*domain.Portfolio, bool) {
	for i := range r.doc.Portfolios {
		if r.doc.Portfolios[i].ID == id {
			return &r.doc.Portfolios[i], true
		}
	}
	return nil, false
}

// GetActive returns the first active portfolio in stored order.
func (r *Registry) GetActive() (*domain.Portfolio, bool) {
	for i := range r.doc.Portfolios {
		if r.doc.Portfolios[i].IsActive {
			return &r.doc.Portfolios[i], true
		}
	}
	return nil, false
}

func (r *Registry) List() []domain.Portfolio {
	return r.doc.Portfolios
}

func (r *Registry) Len() int {
	return len(r.doc.Portfolios)
}

// PortfolioPatch lists the fields Update may replace; nil means keep.
type PortfolioPatch struct {
	Name           *string
	Description    *string
	About          *domain.About
	ProfilePicture *domain.ProfilePicture
	Skills         *domain.Skills
	Projects       *[]domain.Project
	Experience     *domain.Experience
	Contact        *domain.Contact
}

// Update merges patch into the portfolio and bumps updated_at.
func (r *Registry) Update(id string, patch PortfolioPatch) bool {
	p, ok := r.GetByID(id)
	if !ok {
		return false
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.About != nil {
		p.About = *patch.About
	}
	if patch.ProfilePicture != nil {
		p.ProfilePicture = *patch.ProfilePicture
	}
	if patch.Skills != nil {
		p.Skills = *patch.Skills
	}
	if patch.Projects != nil {
		p.Projects = *patch.Projects
	}
	if patch.Experience != nil {
		p.Experience = *patch.Experience
	}
	if patch.Contact != nil {
		p.Contact = *patch.Contact
	}
	r.Touch(p)
	return true
}

// Touch bumps updated_at on a portfolio edited in place.
func (r *Registry) Touch(p *domain.Portfolio) {
	if p != nil {
		p.UpdatedAt = r.timestamp()
	}
}

// Delete removes the portfolio. Guards (last one, active one) belong to the caller.
func (r *Registry) Delete(id string) bool {
	for i := range r.doc.Portfolios {
		if r.doc.Portfolios[i].ID == id {
			r.doc.Portfolios = append(r.doc.Portfolios[:i], r.doc.Portfolios[i+1:]...)
			return true
		}
	}
	return false
}

// SetActive makes id the only active portfolio. Unknown ids change nothing.
func (r *Registry) SetActive(id string) bool {
	if _, ok := r.GetByID(id); !ok {
		return false
	}
	for i := range r.doc.Portfolios {
		r.doc.Portfolios[i].IsActive = r.doc.Portfolios[i].ID == id
	}
	return true
}

// Duplicate deep-copies a portfolio under a new id and name, inactive.
func (r *Registry) Duplicate(id, newName string) (*domain.Portfolio, error) {
	src, ok := r.GetByID(id)
	if !ok {
		return nil, domain.ErrPortfolioNotFound
	}

	var dup domain.Portfolio
	if err := deepcopy.Copy(&dup, *src); err != nil {
		return nil, fmt.Errorf("copy portfolio %s: %w", id, err)
	}
	dup.ID = r.uniqueID()
	dup.Name = newName
	dup.IsActive = false
	dup.CreatedAt = r.timestamp()
	dup.UpdatedAt = dup.CreatedAt

	r.doc.Portfolios = append(r.doc.Portfolios, dup)
	return &r.doc.Portfolios[len(r.doc.Portfolios)-1], nil
}

// NameTaken reports whether another portfolio already uses name, ignoring
// case and surrounding space.
func (r *Registry) NameTaken(name, exceptID string) bool {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, p := range r.doc.Portfolios {
		if p.ID != exceptID && strings.ToLower(strings.TrimSpace(p.Name)) == want {
			return true
		}
	}
	return false
}

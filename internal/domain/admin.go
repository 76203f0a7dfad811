package domain

import (
	"context"
	"io"
)

// Experience category tokens accepted by the admin workflow.
const (
	CategoryInternship    = "internship"
	CategoryThesis        = "thesis"
	CategoryCertification = "certification"
)

type SkillInput struct {
	Type        string `form:"type" json:"type" binding:"required,oneof=technical soft"`
	Name        string `form:"name" json:"name" binding:"required,max=100,no_control"`
	Description string `form:"description" json:"description" binding:"max=1000"`
}

type ProjectInput struct {
	Title        string `form:"title" json:"title" binding:"required,max=200"`
	Description  string `form:"description" json:"description" binding:"required"`
	Technologies string `form:"technologies" json:"technologies"` // comma separated
	Link         string `form:"link" json:"link" binding:"omitempty,safe_link"`
}

// ExperienceInput carries the union of all category fields; the usecase
// decides which ones are required for the chosen category.
type ExperienceInput struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Company     string `form:"company" json:"company"`
	Duration    string `form:"duration" json:"duration"`
	University  string `form:"university" json:"university"`
	Year        string `form:"year" json:"year"`
	Issuer      string `form:"issuer" json:"issuer"`
	Link        string `form:"link" json:"link" binding:"omitempty,safe_link"`
}

type EducationInput struct {
	Degree          string `form:"degree" json:"degree" binding:"required"`
	University      string `form:"university" json:"university" binding:"required"`
	Year            string `form:"year" json:"year" binding:"required"`
	Description     string `form:"description" json:"description"`
	GPA             string `form:"gpa" json:"gpa"`
	Honors          string `form:"honors" json:"honors"`
	CertificateLink string `form:"certificate_link" json:"certificate_link" binding:"omitempty,safe_link"`
}

type ContactInfoInput struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Phone    string `form:"phone" json:"phone" binding:"omitempty,valid_phone"`
	Linkedin string `form:"linkedin" json:"linkedin" binding:"omitempty,safe_link"`
	Github   string `form:"github" json:"github" binding:"omitempty,safe_link"`
}

type AboutInput struct {
	HeroTitle             string `form:"hero_title" json:"hero_title" binding:"required"`
	HeroSubtitle          string `form:"hero_subtitle" json:"hero_subtitle" binding:"required"`
	HeroDescription       string `form:"hero_description" json:"hero_description" binding:"required"`
	AboutText             string `form:"about_text" json:"about_text" binding:"required"`
	Highlight1Emoji       string `form:"highlight1_emoji" json:"highlight1_emoji"`
	Highlight1Title       string `form:"highlight1_title" json:"highlight1_title"`
	Highlight1Description string `form:"highlight1_description" json:"highlight1_description"`
	Highlight2Emoji       string `form:"highlight2_emoji" json:"highlight2_emoji"`
	Highlight2Title       string `form:"highlight2_title" json:"highlight2_title"`
	Highlight2Description string `form:"highlight2_description" json:"highlight2_description"`
	Highlight3Emoji       string `form:"highlight3_emoji" json:"highlight3_emoji"`
	Highlight3Title       string `form:"highlight3_title" json:"highlight3_title"`
	Highlight3Description string `form:"highlight3_description" json:"highlight3_description"`
}

// Highlights returns the submitted highlight triplets in display order.
func (in AboutInput) Highlights() [MaxHighlights]Highlight {
	return [MaxHighlights]Highlight{
		{Emoji: in.Highlight1Emoji, Title: in.Highlight1Title, Description: in.Highlight1Description},
		{Emoji: in.Highlight2Emoji, Title: in.Highlight2Title, Description: in.Highlight2Description},
		{Emoji: in.Highlight3Emoji, Title: in.Highlight3Title, Description: in.Highlight3Description},
	}
}

type HeroButtonInput struct {
	Text      string `form:"text" json:"text" binding:"required,no_control"`
	Link      string `form:"link" json:"link" binding:"required,safe_link"`
	Icon      string `form:"icon" json:"icon" binding:"required"`
	IsVisible bool   `form:"-" json:"is_visible"`
}

// UploadedFile is a profile picture candidate as received from the client.
type UploadedFile struct {
	Filename    string
	ContentType string // as declared by the client
	Size        int64
	Content     io.Reader
}

type SystemSettingsInput struct {
	DefaultPortfolio  string
	AllowPublicAccess bool
	MaintenanceMode   bool
	DefaultTheme      string
	SectionAlignment  string
}

type SiteSettingsInput struct {
	SiteTitle string `form:"site_title" json:"site_title" binding:"max=200"`
}

type PortfolioInput struct {
	Name        string `form:"name" json:"name" binding:"required,max=100,no_control"`
	Description string `form:"description" json:"description" binding:"max=500"`
}

type ChangePasswordInput struct {
	CurrentPassword string `form:"current_password" json:"current_password" binding:"required"`
	NewPassword     string `form:"new_password" json:"new_password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required"`
}

type ChangeUsernameInput struct {
	CurrentPassword string `form:"current_password" json:"current_password" binding:"required"`
	NewUsername     string `form:"new_username" json:"new_username" binding:"required,max=64"`
}

type SkillView struct {
	ID          string `json:"id"` // <type>_<index>
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProjectView struct {
	ID string `json:"id"` // list index
	Project
}

type AboutView struct {
	About          About          `json:"about"`
	ProfilePicture ProfilePicture `json:"profile_picture"`
}

type DashboardStats struct {
	Projects            int    `json:"projects"`
	Skills              int    `json:"skills"`
	Experience          int    `json:"experience"`
	Education           int    `json:"education"`
	ActivePortfolioName string `json:"active_portfolio_name"`
}

type PortfolioSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type SettingsView struct {
	Settings   Settings           `json:"settings"`
	Portfolios []PortfolioSummary `json:"portfolios"`
}

// ContentUsecase edits the sub-documents of the active portfolio, or the
// legacy top-level document when no portfolio is active.
type ContentUsecase interface {
	ListSkills(ctx context.Context) ([]SkillView, error)
	AddSkill(ctx context.Context, in SkillInput) error
	EditSkill(ctx context.Context, id string, in SkillInput) error
	DeleteSkill(ctx context.Context, id string) error
	ReorderSkills(ctx context.Context, order []string) error

	ListProjects(ctx context.Context) ([]ProjectView, error)
	AddProject(ctx context.Context, in ProjectInput) error
	EditProject(ctx context.Context, id string, in ProjectInput) error
	DeleteProject(ctx context.Context, id string) error
	ReorderProjects(ctx context.Context, order []string) error

	GetExperience(ctx context.Context) (*Experience, error)
	AddExperience(ctx context.Context, category string, in ExperienceInput) error
	EditExperience(ctx context.Context, category string, index int, in ExperienceInput) error
	DeleteExperience(ctx context.Context, category string, index int) error

	ListEducation(ctx context.Context) ([]Education, error)
	AddEducation(ctx context.Context, in EducationInput) error
	EditEducation(ctx context.Context, index int, in EducationInput) error
	DeleteEducation(ctx context.Context, index int) error

	GetContact(ctx context.Context) (*Contact, error)
	UpdateContact(ctx context.Context, in ContactInfoInput) error

	GetAbout(ctx context.Context) (*AboutView, error)
	UpdateAbout(ctx context.Context, in AboutInput) error
	AddHeroButton(ctx context.Context, in HeroButtonInput) error
	EditHeroButton(ctx context.Context, index int, in HeroButtonInput) error
	DeleteHeroButton(ctx context.Context, index int) error
	UpdateProfilePicture(ctx context.Context, file UploadedFile) (*ProfilePicture, error)
}

// SettingsUsecase covers site settings, portfolio administration and export.
type SettingsUsecase interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	GetSettings(ctx context.Context) (*SettingsView, error)
	UpdateSystemSettings(ctx context.Context, in SystemSettingsInput) error
	UpdateSiteSettings(ctx context.Context, in SiteSettingsInput) error
	CreatePortfolio(ctx context.Context, in PortfolioInput) (*PortfolioSummary, error)
	EditPortfolio(ctx context.Context, id string, in PortfolioInput) error
	SetActivePortfolio(ctx context.Context, id string) error
	DeletePortfolio(ctx context.Context, id string) error
	DuplicatePortfolio(ctx context.Context, id, newName string) (*PortfolioSummary, error)
	Export(ctx context.Context) ([]byte, error)
	ExportWorkbook(ctx context.Context) ([]byte, error)
}

// AssetStore keeps uploaded images and returns the public path they are served under.
type AssetStore interface {
	SaveImage(ctx context.Context, filename string, data []byte) (publicPath string, err error)
}

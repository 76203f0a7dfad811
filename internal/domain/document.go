package domain

import (
	"github.com/goccy/go-json"
)

// MaxHighlights is the number of highlight triplets an About section carries.
const MaxHighlights = 3

const (
	SkillTypeTechnical = "technical"
	SkillTypeSoft      = "soft"
)

// Document is the single persisted root structure. The top-level About..Contact
// fields are the legacy mirrors used only while no portfolio is active.
type Document struct {
	AdminCredentials AdminCredentials `json:"admin_credentials"`
	Portfolios       []Portfolio      `json:"portfolios"`

	About          *About          `json:"about,omitempty"`
	ProfilePicture *ProfilePicture `json:"profile_picture,omitempty"`
	Skills         *Skills         `json:"skills,omitempty"`
	Projects       *[]Project      `json:"projects,omitempty"`
	Experience     *Experience     `json:"experience,omitempty"`
	Contact        *Contact        `json:"contact,omitempty"`
	Settings       *Settings       `json:"settings,omitempty"`
}

type AdminCredentials struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// Settings is site-wide, never per portfolio. The system settings keys are
// pointers so a stored "" or false survives a load/save cycle while documents
// that never had them stay without them.
type Settings struct {
	SiteTitle         string  `json:"site_title"`
	DefaultPortfolio  *string `json:"default_portfolio,omitempty"`
	AllowPublicAccess *bool   `json:"allow_public_access,omitempty"`
	MaintenanceMode   *bool   `json:"maintenance_mode,omitempty"`
	DefaultTheme      string  `json:"default_theme,omitempty"`
	SectionAlignment  string  `json:"section_alignment,omitempty"`
}

// PublicAccessAllowed treats an unset flag as allowed.
func (s *Settings) PublicAccessAllowed() bool {
	if s == nil || s.AllowPublicAccess == nil {
		return true
	}
	return *s.AllowPublicAccess
}

func (s *Settings) InMaintenance() bool {
	return s != nil && s.MaintenanceMode != nil && *s.MaintenanceMode
}

type Portfolio struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
	About          About          `json:"about"`
	ProfilePicture ProfilePicture `json:"profile_picture"`
	Skills         Skills         `json:"skills"`
	Projects       []Project      `json:"projects"`
	Experience     Experience     `json:"experience"`
	Contact        Contact        `json:"contact"`
	// Settings is kept only so older documents round-trip; the site-wide
	// Document.Settings is authoritative.
	Settings *Settings `json:"settings,omitempty"`
}

type Highlight struct {
	Emoji       string `json:"emoji"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type HeroButton struct {
	Text      string `json:"text"`
	Link      string `json:"link"`
	Icon      string `json:"icon"`
	IsVisible bool   `json:"is_visible"`
}

// About is stored with flat highlightN_* keys; see aboutWire.
type About struct {
	HeroTitle       string
	HeroSubtitle    string
	HeroDescription string
	AboutText       string
	Highlights      [MaxHighlights]Highlight
	HeroButtons     []HeroButton
}

type aboutWire struct {
	HeroTitle             string       `json:"hero_title"`
	HeroSubtitle          string       `json:"hero_subtitle"`
	HeroDescription       string       `json:"hero_description"`
	AboutText             string       `json:"about_text"`
	Highlight1Emoji       string       `json:"highlight1_emoji"`
	Highlight1Title       string       `json:"highlight1_title"`
	Highlight1Description string       `json:"highlight1_description"`
	Highlight2Emoji       string       `json:"highlight2_emoji"`
	Highlight2Title       string       `json:"highlight2_title"`
	Highlight2Description string       `json:"highlight2_description"`
	Highlight3Emoji       string       `json:"highlight3_emoji"`
	Highlight3Title       string       `json:"highlight3_title"`
	Highlight3Description string       `json:"highlight3_description"`
	HeroButtons           []HeroButton `json:"hero_buttons"`
}

func (a About) MarshalJSON() ([]byte, error) {
	w := aboutWire{
		HeroTitle:             a.HeroTitle,
		HeroSubtitle:          a.HeroSubtitle,
		HeroDescription:       a.HeroDescription,
		AboutText:             a.AboutText,
		Highlight1Emoji:       a.Highlights[0].Emoji,
		Highlight1Title:       a.Highlights[0].Title,
		Highlight1Description: a.Highlights[0].Description,
		Highlight2Emoji:       a.Highlights[1].Emoji,
		Highlight2Title:       a.Highlights[1].Title,
		Highlight2Description: a.Highlights[1].Description,
		Highlight3Emoji:       a.Highlights[2].Emoji,
		Highlight3Title:       a.Highlights[2].Title,
		Highlight3Description: a.Highlights[2].Description,
		HeroButtons:           a.HeroButtons,
	}
	return json.MarshalWithOption(w, json.DisableHTMLEscape())
}

func (a *About) UnmarshalJSON(data []byte) error {
	var w aboutWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	a.HeroTitle = w.HeroTitle
	a.HeroSubtitle = w.HeroSubtitle
	a.HeroDescription = w.HeroDescription
	a.AboutText = w.AboutText
	a.Highlights = [MaxHighlights]Highlight{
		{Emoji: w.Highlight1Emoji, Title: w.Highlight1Title, Description: w.Highlight1Description},
		{Emoji: w.Highlight2Emoji, Title: w.Highlight2Title, Description: w.Highlight2Description},
		{Emoji: w.Highlight3Emoji, Title: w.Highlight3Title, Description: w.Highlight3Description},
	}
	a.HeroButtons = w.HeroButtons
	return nil
}

type ProfilePicture struct {
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
}

type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Skills struct {
	Technical []Skill `json:"technical"`
	Soft      []Skill `json:"soft"`
}

type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link"`
}

type Internship struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Thesis struct {
	Title       string `json:"title"`
	University  string `json:"university"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

type Certification struct {
	Title  string `json:"title"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
	Link   string `json:"link"`
}

type Education struct {
	Degree          string `json:"degree"`
	University      string `json:"university"`
	Year            string `json:"year"`
	Description     string `json:"description"`
	GPA             string `json:"gpa"`
	Honors          string `json:"honors"`
	CertificateLink string `json:"certificate_link"`
}

// Experience.Education is optional in stored documents; a nil slice means absent.
type Experience struct {
	Internships    []Internship    `json:"internships"`
	Thesis         []Thesis        `json:"thesis"`
	Certifications []Certification `json:"certifications"`
	Education      []Education     `json:"education,omitempty"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Linkedin string `json:"linkedin"`
	Github   string `json:"github"`
}

// PublicPortfolio is what the public read path exposes. It never carries credentials.
type PublicPortfolio struct {
	ID             string         `json:"id,omitempty"`
	Name           string         `json:"name,omitempty"`
	Description    string         `json:"description,omitempty"`
	About          About          `json:"about"`
	ProfilePicture ProfilePicture `json:"profile_picture"`
	Skills         Skills         `json:"skills"`
	Projects       []Project      `json:"projects"`
	Experience     Experience     `json:"experience"`
	Contact        Contact        `json:"contact"`
	Settings       Settings       `json:"settings"`
}

package filestore

import (
	"time"

	"portfolio-backend/internal/domain"
)

// MainPortfolioID is the id of the portfolio a fresh install starts with.
const MainPortfolioID = "main"

const defaultSiteTitle = "My Awesome Portfolio"

func sampleAbout() domain.About {
	return domain.About{
		HeroTitle:       "Your Name",
		HeroSubtitle:    "Software & Research Professional",
		HeroDescription: "Building useful things at the edge of science and the web.",
		AboutText:       "Write a few sentences about your background, what you work on and what you are looking for.",
		Highlights: [domain.MaxHighlights]domain.Highlight{
			{Emoji: "🔬", Title: "Researcher", Description: "Lab and field experience"},
			{Emoji: "💻", Title: "Developer", Description: "Web applications and tooling"},
			{Emoji: "🔍", Title: "Curious", Description: "Always learning something new"},
		},
		HeroButtons: []domain.HeroButton{
			{Text: "Download Resume", Link: "/static/documents/resume.pdf", Icon: "📄", IsVisible: true},
			{Text: "Contact Me", Link: "#contact", Icon: "📬", IsVisible: true},
		},
	}
}

func sampleSkills() domain.Skills {
	return domain.Skills{
		Technical: []domain.Skill{
			{Name: "Go", Description: "HTTP services, CLIs and data plumbing."},
			{Name: "Python", Description: "Data analysis and scripting."},
		},
		Soft: []domain.Skill{
			{Name: "Communication", Description: "Explaining technical work to any audience."},
		},
	}
}

func sampleProjects() []domain.Project {
	return []domain.Project{
		{
			Title:        "Portfolio Backend",
			Description:  "The service behind this site.",
			Technologies: []string{"Go", "JSON"},
			Link:         "https://github.com/yourusername/portfolio",
		},
	}
}

func sampleExperience() domain.Experience {
	return domain.Experience{
		Internships: []domain.Internship{
			{Title: "Software Intern", Company: "Example Labs", Duration: "May 2023 - August 2023", Description: "Built internal tools."},
		},
		Thesis:         []domain.Thesis{},
		Certifications: []domain.Certification{},
	}
}

func sampleContact() domain.Contact {
	return domain.Contact{
		Email:    "you@example.com",
		Linkedin: "https://linkedin.com/in/yourusername",
		Github:   "https://github.com/yourusername",
	}
}

// DefaultDocument is written on first start: admin credentials, one active
// portfolio and matching legacy top-level sections.
func DefaultDocument(username, passwordHash string, now time.Time) *domain.Document {
	stamp := now.UTC().Format(time.RFC3339)
	projects := sampleProjects()
	about := sampleAbout()
	skills := sampleSkills()
	experience := sampleExperience()
	contact := sampleContact()
	picture := domain.ProfilePicture{}

	return &domain.Document{
		AdminCredentials: domain.AdminCredentials{
			Username:     username,
			PasswordHash: passwordHash,
		},
		Portfolios: []domain.Portfolio{
			{
				ID:         MainPortfolioID,
				Name:       "Main Portfolio",
				IsActive:   true,
				CreatedAt:  stamp,
				UpdatedAt:  stamp,
				About:      sampleAbout(),
				Skills:     sampleSkills(),
				Projects:   sampleProjects(),
				Experience: sampleExperience(),
				Contact:    sampleContact(),
			},
		},
		About:          &about,
		ProfilePicture: &picture,
		Skills:         &skills,
		Projects:       &projects,
		Experience:     &experience,
		Contact:        &contact,
		Settings:       &domain.Settings{SiteTitle: defaultSiteTitle},
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/security/antivirus"

	"github.com/google/uuid"
)

type ContentConfig struct {
	// ReorderKeepMissing appends items absent from a reorder request instead of dropping them.
	ReorderKeepMissing bool
	UploadMaxBytes     int64
	// MaxImageDimension bounds the longer edge of stored profile pictures; 0 disables.
	MaxImageDimension int
}

type contentUsecase struct {
	docs    domain.DocumentRepository
	audit   auditor
	assets  domain.AssetStore
	scanner antivirus.Scanner
	secLog  *security.SecurityLogger
	cfg     ContentConfig
}

func NewContentUsecase(
	docs domain.DocumentRepository,
	audit domain.AuditLogger,
	assets domain.AssetStore,
	scanner antivirus.Scanner,
	secLog *security.SecurityLogger,
	cfg ContentConfig,
) domain.ContentUsecase {
	if scanner == nil {
		scanner = antivirus.NewNoOpScanner()
	}
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = security.DefaultMaxImageBytes
	}
	return &contentUsecase{
		docs:    docs,
		audit:   newAuditor(audit),
		assets:  assets,
		scanner: scanner,
		secLog:  secLog,
		cfg:     cfg,
	}
}

// view loads the document and hands the current target to fn. Nothing is saved.
func (u *contentUsecase) view(ctx context.Context, fn func(t target) error) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	doc, err := u.docs.Load(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	return toAppError(fn(resolveTarget(doc, portfolio.NewRegistry(doc))))
}

// mutate applies fn to the current target and audits the change.
func (u *contentUsecase) mutate(ctx context.Context, section, action string, fn func(t target) (string, error)) error {
	return applyChange(ctx, u.docs, u.audit, section, action, func(doc *domain.Document, reg *portfolio.Registry) (string, error) {
		t := resolveTarget(doc, reg)
		details, err := fn(t)
		if err != nil {
			return "", err
		}
		reg.Touch(t.portfolio)
		return details, nil
	})
}

// Skills

func skillList(s *domain.Skills, skillType string) (*[]domain.Skill, error) {
	switch skillType {
	case domain.SkillTypeTechnical:
		return &s.Technical, nil
	case domain.SkillTypeSoft:
		return &s.Soft, nil
	}
	return nil, domain.ErrUnknownSkillType
}

// parseSkillID splits "<type>_<index>".
func parseSkillID(id string) (string, int, error) {
	i := strings.LastIndex(id, "_")
	if i <= 0 {
		return "", 0, apperror.BadRequest("Invalid skill id")
	}
	idx, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return "", 0, apperror.BadRequest("Invalid skill id")
	}
	return id[:i], idx, nil
}

func skillViews(s *domain.Skills) []domain.SkillView {
	views := make([]domain.SkillView, 0, len(s.Technical)+len(s.Soft))
	for _, skillType := range []string{domain.SkillTypeTechnical, domain.SkillTypeSoft} {
		list, _ := skillList(s, skillType)
		for i, sk := range *list {
			views = append(views, domain.SkillView{
				ID:          fmt.Sprintf("%s_%d", skillType, i),
				Type:        skillType,
				Name:        sk.Name,
				Description: sk.Description,
			})
		}
	}
	return views
}

func (u *contentUsecase) ListSkills(ctx context.Context) ([]domain.SkillView, error) {
	var views []domain.SkillView
	err := u.view(ctx, func(t target) error {
		views = skillViews(t.skills())
		return nil
	})
	return views, err
}

func (u *contentUsecase) AddSkill(ctx context.Context, in domain.SkillInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.BadRequest("Skill name is required")
	}
	return u.mutate(ctx, "skill", "add", func(t target) (string, error) {
		list, err := skillList(t.skills(), in.Type)
		if err != nil {
			return "", err
		}
		*list = append(*list, domain.Skill{Name: in.Name, Description: in.Description})
		return fmt.Sprintf("type=%s, name=%s", in.Type, in.Name), nil
	})
}

// EditSkill replaces the skill at id. A different in.Type moves the skill
// to the end of the other list.
func (u *contentUsecase) EditSkill(ctx context.Context, id string, in domain.SkillInput) error {
	skillType, idx, err := parseSkillID(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(in.Name) == "" {
		return apperror.BadRequest("Skill name is required")
	}
	if in.Type == "" {
		in.Type = skillType
	}
	return u.mutate(ctx, "skill", "edit", func(t target) (string, error) {
		from, err := skillList(t.skills(), skillType)
		if err != nil {
			return "", err
		}
		if err := checkIndex(*from, idx); err != nil {
			return "", err
		}
		updated := domain.Skill{Name: in.Name, Description: in.Description}
		if in.Type == skillType {
			(*from)[idx] = updated
		} else {
			to, err := skillList(t.skills(), in.Type)
			if err != nil {
				return "", err
			}
			*from, _ = removeAt(*from, idx)
			*to = append(*to, updated)
		}
		return fmt.Sprintf("type=%s, idx=%d, name=%s", in.Type, idx, in.Name), nil
	})
}

func (u *contentUsecase) DeleteSkill(ctx context.Context, id string) error {
	skillType, idx, err := parseSkillID(id)
	if err != nil {
		return err
	}
	return u.mutate(ctx, "skill", "delete", func(t target) (string, error) {
		list, err := skillList(t.skills(), skillType)
		if err != nil {
			return "", err
		}
		if *list, err = removeAt(*list, idx); err != nil {
			return "", err
		}
		return fmt.Sprintf("type=%s, idx=%d", skillType, idx), nil
	})
}

func (u *contentUsecase) ReorderSkills(ctx context.Context, order []string) error {
	return u.mutate(ctx, "skills", "reorder", func(t target) (string, error) {
		s := t.skills()
		views := skillViews(s)
		ids := make([]string, len(views))
		byID := make(map[string]domain.SkillView, len(views))
		for i, v := range views {
			ids[i] = v.ID
			byID[v.ID] = v
		}

		technical := []domain.Skill{}
		soft := []domain.Skill{}
		for _, id := range reorderIDs(ids, order, u.cfg.ReorderKeepMissing) {
			v := byID[id]
			sk := domain.Skill{Name: v.Name, Description: v.Description}
			if v.Type == domain.SkillTypeTechnical {
				technical = append(technical, sk)
			} else {
				soft = append(soft, sk)
			}
		}
		s.Technical, s.Soft = technical, soft
		return "order=" + strings.Join(order, ","), nil
	})
}

// reorderIDs returns the requested order restricted to known ids, each used
// once. With keepMissing, known ids the request left out follow in their
// current relative order; otherwise they are dropped.
func reorderIDs(current, requested []string, keepMissing bool) []string {
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	used := make(map[string]bool, len(requested))
	out := make([]string, 0, len(current))
	for _, id := range requested {
		if known[id] && !used[id] {
			used[id] = true
			out = append(out, id)
		}
	}
	if keepMissing {
		for _, id := range current {
			if !used[id] {
				out = append(out, id)
			}
		}
	}
	return out
}

// Projects

func parseIndex(id, what string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return 0, apperror.BadRequest("Invalid " + what + " id")
	}
	return idx, nil
}

func splitTechnologies(raw string) []string {
	techs := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			techs = append(techs, t)
		}
	}
	return techs
}

func projectFromInput(in domain.ProjectInput) (domain.Project, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return domain.Project{}, apperror.BadRequest("Project title and description are required")
	}
	return domain.Project{
		Title:        in.Title,
		Description:  in.Description,
		Technologies: splitTechnologies(in.Technologies),
		Link:         in.Link,
	}, nil
}

func (u *contentUsecase) ListProjects(ctx context.Context) ([]domain.ProjectView, error) {
	var views []domain.ProjectView
	err := u.view(ctx, func(t target) error {
		projects := *t.projects()
		views = make([]domain.ProjectView, len(projects))
		for i, p := range projects {
			views[i] = domain.ProjectView{ID: strconv.Itoa(i), Project: p}
		}
		return nil
	})
	return views, err
}

func (u *contentUsecase) AddProject(ctx context.Context, in domain.ProjectInput) error {
	p, err := projectFromInput(in)
	if err != nil {
		return err
	}
	return u.mutate(ctx, "project", "add", func(t target) (string, error) {
		projects := t.projects()
		*projects = append(*projects, p)
		return "title=" + p.Title, nil
	})
}

func (u *contentUsecase) EditProject(ctx context.Context, id string, in domain.ProjectInput) error {
	idx, err := parseIndex(id, "project")
	if err != nil {
		return err
	}
	p, err := projectFromInput(in)
	if err != nil {
		return err
	}
	return u.mutate(ctx, "project", "edit", func(t target) (string, error) {
		projects := t.projects()
		if err := checkIndex(*projects, idx); err != nil {
			return "", err
		}
		(*projects)[idx] = p
		return fmt.Sprintf("idx=%d, title=%s", idx, p.Title), nil
	})
}

func (u *contentUsecase) DeleteProject(ctx context.Context, id string) error {
	idx, err := parseIndex(id, "project")
	if err != nil {
		return err
	}
	return u.mutate(ctx, "project", "delete", func(t target) (string, error) {
		projects := t.projects()
		var err error
		if *projects, err = removeAt(*projects, idx); err != nil {
			return "", err
		}
		return fmt.Sprintf("idx=%d", idx), nil
	})
}

func (u *contentUsecase) ReorderProjects(ctx context.Context, order []string) error {
	return u.mutate(ctx, "projects", "reorder", func(t target) (string, error) {
		projects := t.projects()
		ids := make([]string, len(*projects))
		for i := range *projects {
			ids[i] = strconv.Itoa(i)
		}
		reordered := []domain.Project{}
		for _, id := range reorderIDs(ids, order, u.cfg.ReorderKeepMissing) {
			i, _ := strconv.Atoi(id)
			reordered = append(reordered, (*projects)[i])
		}
		*projects = reordered
		return "order=" + strings.Join(order, ","), nil
	})
}

// Experience

var experienceRequired = map[string][]string{
	domain.CategoryInternship:    {"title", "company"},
	domain.CategoryThesis:        {"title", "university"},
	domain.CategoryCertification: {"title", "issuer"},
}

func checkExperience(category string, in domain.ExperienceInput) error {
	required, ok := experienceRequired[category]
	if !ok {
		return domain.ErrUnknownCategory
	}
	values := map[string]string{
		"title":      in.Title,
		"company":    in.Company,
		"university": in.University,
		"issuer":     in.Issuer,
	}
	for _, field := range required {
		if strings.TrimSpace(values[field]) == "" {
			return apperror.BadRequest(fmt.Sprintf("%s is required for %s entries", field, category))
		}
	}
	return nil
}

func (u *contentUsecase) GetExperience(ctx context.Context) (*domain.Experience, error) {
	var exp domain.Experience
	err := u.view(ctx, func(t target) error {
		exp = *t.experience()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

func (u *contentUsecase) AddExperience(ctx context.Context, category string, in domain.ExperienceInput) error {
	if err := checkExperience(category, in); err != nil {
		return toAppError(err)
	}
	return u.mutate(ctx, category, "add", func(t target) (string, error) {
		exp := t.experience()
		switch category {
		case domain.CategoryInternship:
			exp.Internships = append(exp.Internships, domain.Internship{
				Title: in.Title, Company: in.Company, Duration: in.Duration, Description: in.Description,
			})
		case domain.CategoryThesis:
			exp.Thesis = append(exp.Thesis, domain.Thesis{
				Title: in.Title, University: in.University, Year: in.Year, Description: in.Description,
			})
		case domain.CategoryCertification:
			exp.Certifications = append(exp.Certifications, domain.Certification{
				Title: in.Title, Issuer: in.Issuer, Year: in.Year, Link: in.Link,
			})
		}
		return "title=" + in.Title, nil
	})
}

func (u *contentUsecase) EditExperience(ctx context.Context, category string, index int, in domain.ExperienceInput) error {
	if err := checkExperience(category, in); err != nil {
		return toAppError(err)
	}
	return u.mutate(ctx, category, "edit", func(t target) (string, error) {
		exp := t.experience()
		var err error
		switch category {
		case domain.CategoryInternship:
			if err = checkIndex(exp.Internships, index); err == nil {
				exp.Internships[index] = domain.Internship{
					Title: in.Title, Company: in.Company, Duration: in.Duration, Description: in.Description,
				}
			}
		case domain.CategoryThesis:
			if err = checkIndex(exp.Thesis, index); err == nil {
				exp.Thesis[index] = domain.Thesis{
					Title: in.Title, University: in.University, Year: in.Year, Description: in.Description,
				}
			}
		case domain.CategoryCertification:
			if err = checkIndex(exp.Certifications, index); err == nil {
				exp.Certifications[index] = domain.Certification{
					Title: in.Title, Issuer: in.Issuer, Year: in.Year, Link: in.Link,
				}
			}
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("idx=%d, title=%s", index, in.Title), nil
	})
}

func (u *contentUsecase) DeleteExperience(ctx context.Context, category string, index int) error {
	if _, ok := experienceRequired[category]; !ok {
		return toAppError(domain.ErrUnknownCategory)
	}
	return u.mutate(ctx, category, "delete", func(t target) (string, error) {
		exp := t.experience()
		var err error
		switch category {
		case domain.CategoryInternship:
			exp.Internships, err = removeAt(exp.Internships, index)
		case domain.CategoryThesis:
			exp.Thesis, err = removeAt(exp.Thesis, index)
		case domain.CategoryCertification:
			exp.Certifications, err = removeAt(exp.Certifications, index)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("idx=%d", index), nil
	})
}

// Education

func educationFromInput(in domain.EducationInput) (domain.Education, error) {
	if strings.TrimSpace(in.Degree) == "" || strings.TrimSpace(in.University) == "" || strings.TrimSpace(in.Year) == "" {
		return domain.Education{}, apperror.BadRequest("Degree, university and year are required")
	}
	return domain.Education{
		Degree:          in.Degree,
		University:      in.University,
		Year:            in.Year,
		Description:     in.Description,
		GPA:             in.GPA,
		Honors:          in.Honors,
		CertificateLink: in.CertificateLink,
	}, nil
}

func (u *contentUsecase) ListEducation(ctx context.Context) ([]domain.Education, error) {
	education := []domain.Education{}
	err := u.view(ctx, func(t target) error {
		education = append(education, t.experience().Education...)
		return nil
	})
	return education, err
}

func (u *contentUsecase) AddEducation(ctx context.Context, in domain.EducationInput) error {
	item, err := educationFromInput(in)
	if err != nil {
		return err
	}
	return u.mutate(ctx, "education", "add", func(t target) (string, error) {
		exp := t.experience()
		exp.Education = append(exp.Education, item)
		return "degree=" + item.Degree, nil
	})
}

func (u *contentUsecase) EditEducation(ctx context.Context, index int, in domain.EducationInput) error {
	item, err := educationFromInput(in)
	if err != nil {
		return err
	}
	return u.mutate(ctx, "education", "edit", func(t target) (string, error) {
		exp := t.experience()
		if err := checkIndex(exp.Education, index); err != nil {
			return "", err
		}
		exp.Education[index] = item
		return fmt.Sprintf("idx=%d, degree=%s", index, item.Degree), nil
	})
}

func (u *contentUsecase) DeleteEducation(ctx context.Context, index int) error {
	return u.mutate(ctx, "education", "delete", func(t target) (string, error) {
		exp := t.experience()
		var err error
		if exp.Education, err = removeAt(exp.Education, index); err != nil {
			return "", err
		}
		return fmt.Sprintf("idx=%d", index), nil
	})
}

// Contact

func (u *contentUsecase) GetContact(ctx context.Context) (*domain.Contact, error) {
	var c domain.Contact
	err := u.view(ctx, func(t target) error {
		c = *t.contact()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (u *contentUsecase) UpdateContact(ctx context.Context, in domain.ContactInfoInput) error {
	if strings.TrimSpace(in.Email) == "" {
		return apperror.BadRequest("Email is required")
	}
	return u.mutate(ctx, "contact", "update", func(t target) (string, error) {
		*t.contact() = domain.Contact{
			Email:    in.Email,
			Phone:    in.Phone,
			Linkedin: in.Linkedin,
			Github:   in.Github,
		}
		return "email=" + in.Email, nil
	})
}

// About

func (u *contentUsecase) GetAbout(ctx context.Context) (*domain.AboutView, error) {
	var v domain.AboutView
	err := u.view(ctx, func(t target) error {
		v.About = *t.about()
		v.ProfilePicture = *t.profilePicture()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (u *contentUsecase) UpdateAbout(ctx context.Context, in domain.AboutInput) error {
	for _, v := range []string{in.HeroTitle, in.HeroSubtitle, in.HeroDescription, in.AboutText} {
		if strings.TrimSpace(v) == "" {
			return apperror.BadRequest("Hero title, subtitle, description and about text are required")
		}
	}
	return u.mutate(ctx, "about", "update", func(t target) (string, error) {
		about := t.about()
		about.HeroTitle = in.HeroTitle
		about.HeroSubtitle = in.HeroSubtitle
		about.HeroDescription = in.HeroDescription
		about.AboutText = in.AboutText
		about.Highlights = in.Highlights()
		return "hero_title=" + in.HeroTitle, nil
	})
}

func (u *contentUsecase) AddHeroButton(ctx context.Context, in domain.HeroButtonInput) error {
	return u.mutate(ctx, "hero_button", "add", func(t target) (string, error) {
		about := t.about()
		about.HeroButtons = append(about.HeroButtons, domain.HeroButton{
			Text:      in.Text,
			Link:      in.Link,
			Icon:      in.Icon,
			IsVisible: true,
		})
		return "text=" + in.Text, nil
	})
}

func (u *contentUsecase) EditHeroButton(ctx context.Context, index int, in domain.HeroButtonInput) error {
	return u.mutate(ctx, "hero_button", "edit", func(t target) (string, error) {
		about := t.about()
		if err := checkIndex(about.HeroButtons, index); err != nil {
			return "", err
		}
		about.HeroButtons[index] = domain.HeroButton{
			Text:      in.Text,
			Link:      in.Link,
			Icon:      in.Icon,
			IsVisible: in.IsVisible,
		}
		return fmt.Sprintf("idx=%d, text=%s, visible=%t", index, in.Text, in.IsVisible), nil
	})
}

func (u *contentUsecase) DeleteHeroButton(ctx context.Context, index int) error {
	return u.mutate(ctx, "hero_button", "delete", func(t target) (string, error) {
		about := t.about()
		var err error
		if about.HeroButtons, err = removeAt(about.HeroButtons, index); err != nil {
			return "", err
		}
		return fmt.Sprintf("idx=%d", index), nil
	})
}

// UpdateProfilePicture validates, scans and stores an uploaded image, then
// points the target's profile picture at it.
func (u *contentUsecase) UpdateProfilePicture(ctx context.Context, file domain.UploadedFile) (*domain.ProfilePicture, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if file.Content == nil {
		return nil, apperror.BadRequest("No file uploaded")
	}
	if file.Size > u.cfg.UploadMaxBytes {
		return nil, u.rejectUpload(ctx, file.Filename, "", security.ErrFileTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(file.Content, u.cfg.UploadMaxBytes+1))
	if err != nil {
		return nil, apperror.BadRequest("Failed to read uploaded file")
	}

	result := security.ValidateImage(file.Filename, file.ContentType, data, u.cfg.UploadMaxBytes)
	if !result.Valid() {
		return nil, u.rejectUpload(ctx, file.Filename, result.DetectedMIME, result.Err)
	}

	scan := u.scanner.Scan(ctx, file.Filename, data)
	if scan.Error != nil {
		logger.Log.Error("antivirus scan failed", "scanner", scan.ScannerName, "error", scan.Error)
		return nil, apperror.ServiceUnavailable("File scanning is unavailable. Please try again later.")
	}
	if scan.Infected {
		u.secLog.LogUploadRejected(ctx, file.Filename, result.DetectedMIME, "malware: "+scan.ThreatName)
		return nil, apperror.Unprocessable("The uploaded file was rejected by the virus scanner.")
	}

	data, resized, err := security.DownscaleImage(data, u.cfg.MaxImageDimension)
	if err != nil {
		return nil, u.rejectUpload(ctx, file.Filename, result.DetectedMIME, err)
	}
	if resized {
		logger.Log.Info("profile picture downscaled", "filename", file.Filename, "max_dimension", u.cfg.MaxImageDimension)
	}

	// Names that sanitize away (non-ASCII stems) get a random stem.
	filename := security.SanitizeFilename(file.Filename)
	if !strings.HasSuffix(strings.ToLower(filename), "."+result.Extension) {
		filename = uuid.NewString()[:8] + "." + result.Extension
	}
	publicPath, err := u.assets.SaveImage(ctx, filename, data)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("store profile picture: %w", err))
	}

	picture := domain.ProfilePicture{Filename: filename, Filepath: publicPath}
	err = u.mutate(ctx, "profile_picture", "update", func(t target) (string, error) {
		*t.profilePicture() = picture
		return "filename=" + filename, nil
	})
	if err != nil {
		return nil, err
	}
	return &picture, nil
}

func (u *contentUsecase) rejectUpload(ctx context.Context, filename, mime string, cause error) error {
	u.secLog.LogUploadRejected(ctx, filename, mime, cause.Error())

	msg := fmt.Sprintf("Invalid file type. Allowed extensions: %s.", strings.Join(security.AllowedImageExtensions(), ", "))
	switch {
	case errors.Is(cause, security.ErrFileTooLarge):
		msg = fmt.Sprintf("File size must be less than %dMB.", u.cfg.UploadMaxBytes>>20)
	case errors.Is(cause, security.ErrDeclaredTypeDenied), errors.Is(cause, security.ErrContentMismatch):
		msg = "Only JPG, PNG, or GIF images are allowed."
	case errors.Is(cause, security.ErrEmptyFile):
		msg = "Uploaded file is empty."
	}
	return apperror.BadRequest(msg).Wrap(cause)
}

package v1

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AdminHandler struct {
	contentUC    domain.ContentUsecase
	settingsUC   domain.SettingsUsecase
	authUC       domain.AuthUsecase
	cookieSecure bool

	sections map[string]adminSection
}

// adminSection pairs the read and write side of one admin page. A nil
// handler means the method is not supported for that section.
type adminSection struct {
	get  gin.HandlerFunc
	post gin.HandlerFunc
}

type reorderRequest struct {
	Action string   `json:"action" binding:"required"`
	Order  []string `json:"order" binding:"required"`
}

func NewAdminHandler(protected *gin.RouterGroup, contentUC domain.ContentUsecase, settingsUC domain.SettingsUsecase, authUC domain.AuthUsecase, cookieSecure bool) {
	handler := &AdminHandler{
		contentUC:    contentUC,
		settingsUC:   settingsUC,
		authUC:       authUC,
		cookieSecure: cookieSecure,
	}
	handler.sections = map[string]adminSection{
		"dashboard":       {get: handler.dashboard},
		"skills":          {get: handler.listSkills, post: handler.postSkills},
		"projects":        {get: handler.listProjects, post: handler.postProjects},
		"experience":      {get: handler.getExperience, post: handler.postExperience},
		"education":       {get: handler.listEducation, post: handler.postEducation},
		"contact":         {get: handler.getContact, post: handler.postContact},
		"about":           {get: handler.getAbout, post: handler.postAbout},
		"settings":        {get: handler.getSettings, post: handler.postSettings},
		"change_password": {post: handler.changePassword},
		"change_username": {post: handler.changeUsername},
		"export":          {get: handler.export},
	}

	admin := protected.Group("/admin")
	{
		admin.GET("", handler.dashboard)
		admin.GET("/:section", handler.Get)
		admin.POST("/:section", handler.Post)
	}
}

func (h *AdminHandler) lookup(c *gin.Context, pick func(adminSection) gin.HandlerFunc) gin.HandlerFunc {
	section, ok := h.sections[c.Param("section")]
	if !ok {
		c.Error(apperror.NotFound("Unknown admin section"))
		return nil
	}
	fn := pick(section)
	if fn == nil {
		c.Error(apperror.New(http.StatusMethodNotAllowed, "Method not allowed for this section", nil))
		return nil
	}
	return fn
}

// Get godoc
// @Summary      Read an admin section
// @Description  Sections: dashboard, skills, projects, experience, education, contact, about, settings, export.
// @Description  export downloads portfolio_data.json, or portfolio_data.xlsx with format=xlsx.
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        section  path      string  true   "Admin section"
// @Param        format   query     string  false  "Export format for the export section" Enums(json, xlsx)
// @Success      200      {object}  response.Envelope
// @Failure      400      {object}  response.Envelope
// @Failure      401      {object}  response.Envelope
// @Failure      404      {object}  response.Envelope
// @Router       /admin/{section} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	if fn := h.lookup(c, func(s adminSection) gin.HandlerFunc { return s.get }); fn != nil {
		fn(c)
	}
}

// Post godoc
// @Summary      Write an admin section
// @Description  Form-driven writes; the sub-operation is chosen by the "action" field.
// @Description  skills and projects also accept JSON {"action":"reorder_skills|reorder_projects","order":[...]}.
// @Description  about accepts a multipart "profile_pic" upload.
// @Tags         admin
// @Accept       x-www-form-urlencoded,mpfd,json
// @Produce      json
// @Security     SessionCookie
// @Param        section       path      string  true  "Admin section"
// @Param        X-CSRF-Token  header    string  true  "CSRF token"
// @Success      200           {object}  response.Envelope
// @Failure      400           {object}  response.Envelope
// @Failure      401           {object}  response.Envelope
// @Failure      403           {object}  response.Envelope
// @Failure      404           {object}  response.Envelope
// @Failure      409           {object}  response.Envelope
// @Failure      422           {object}  response.Envelope
// @Router       /admin/{section} [post]
func (h *AdminHandler) Post(c *gin.Context) {
	if fn := h.lookup(c, func(s adminSection) gin.HandlerFunc { return s.post }); fn != nil {
		fn(c)
	}
}

// --- helpers ---

func reply(c *gin.Context, err error, message string) {
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, message, nil)
}

func bindForm(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		c.Error(apperror.BadRequest(validation.Summary(err)))
		return false
	}
	return true
}

// formValue reads a form field, falling back to the query string.
func formValue(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(c.Query(key))
}

func requiredValue(c *gin.Context, key string) (string, bool) {
	v := formValue(c, key)
	if v == "" {
		c.Error(apperror.BadRequest(key + " is required"))
		return "", false
	}
	return v, true
}

func formIndex(c *gin.Context, key string) (int, bool) {
	v, ok := requiredValue(c, key)
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(v)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid " + key))
		return 0, false
	}
	return idx, true
}

func isJSON(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEJSON
}

func (h *AdminHandler) reorder(c *gin.Context, expected string, fn func(ctx context.Context, order []string) error) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Summary(err)))
		return
	}
	if req.Action != expected {
		c.Error(apperror.BadRequest("Unknown action"))
		return
	}
	reply(c, fn(c.Request.Context(), req.Order), "Order saved")
}

func unknownAction(c *gin.Context) {
	c.Error(apperror.BadRequest("Unknown action"))
}

// --- dashboard ---

func (h *AdminHandler) dashboard(c *gin.Context) {
	stats, err := h.settingsUC.Dashboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard", stats)
}

// --- skills ---

func (h *AdminHandler) listSkills(c *gin.Context) {
	skills, err := h.contentUC.ListSkills(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skills", skills)
}

func (h *AdminHandler) postSkills(c *gin.Context) {
	if isJSON(c) {
		h.reorder(c, "reorder_skills", h.contentUC.ReorderSkills)
		return
	}

	ctx := c.Request.Context()
	if id := formValue(c, "delete_id"); id != "" {
		reply(c, h.contentUC.DeleteSkill(ctx, id), "Skill deleted successfully!")
		return
	}

	switch formValue(c, "action") {
	case "add":
		var in domain.SkillInput
		if bindForm(c, &in) {
			reply(c, h.contentUC.AddSkill(ctx, in), "Skill added successfully!")
		}
	case "edit":
		id, ok := requiredValue(c, "id")
		var in domain.SkillInput
		if ok && bindForm(c, &in) {
			reply(c, h.contentUC.EditSkill(ctx, id, in), "Skill updated successfully!")
		}
	case "delete":
		if id, ok := requiredValue(c, "id"); ok {
			reply(c, h.contentUC.DeleteSkill(ctx, id), "Skill deleted successfully!")
		}
	default:
		unknownAction(c)
	}
}

// --- projects ---

func (h *AdminHandler) listProjects(c *gin.Context) {
	projects, err := h.contentUC.ListProjects(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Projects", projects)
}

func (h *AdminHandler) postProjects(c *gin.Context) {
	if isJSON(c) {
		h.reorder(c, "reorder_projects", h.contentUC.ReorderProjects)
		return
	}

	ctx := c.Request.Context()
	if id := formValue(c, "delete_id"); id != "" {
		reply(c, h.contentUC.DeleteProject(ctx, id), "Project deleted successfully!")
		return
	}

	switch formValue(c, "action") {
	case "add":
		var in domain.ProjectInput
		if bindForm(c, &in) {
			reply(c, h.contentUC.AddProject(ctx, in), "Project added successfully!")
		}
	case "edit":
		id, ok := requiredValue(c, "id")
		var in domain.ProjectInput
		if ok && bindForm(c, &in) {
			reply(c, h.contentUC.EditProject(ctx, id, in), "Project updated successfully!")
		}
	case "delete":
		if id, ok := requiredValue(c, "id"); ok {
			reply(c, h.contentUC.DeleteProject(ctx, id), "Project deleted successfully!")
		}
	default:
		unknownAction(c)
	}
}

// --- experience ---

type experienceView struct {
	*domain.Experience
	Education []domain.Education `json:"education"`
}

func (h *AdminHandler) getExperience(c *gin.Context) {
	exp, err := h.contentUC.GetExperience(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	view := experienceView{Experience: exp, Education: exp.Education}
	if view.Education == nil {
		view.Education = []domain.Education{}
	}
	response.Success(c, http.StatusOK, "Experience", view)
}

func (h *AdminHandler) postExperience(c *gin.Context) {
	ctx := c.Request.Context()
	category, ok := requiredValue(c, "category")
	if !ok {
		return
	}

	switch formValue(c, "action") {
	case "add":
		var in domain.ExperienceInput
		if bindForm(c, &in) {
			reply(c, h.contentUC.AddExperience(ctx, category, in), "Experience added successfully!")
		}
	case "edit":
		idx, ok := formIndex(c, "id")
		var in domain.ExperienceInput
		if ok && bindForm(c, &in) {
			reply(c, h.contentUC.EditExperience(ctx, category, idx, in), "Experience updated successfully!")
		}
	case "delete":
		if idx, ok := formIndex(c, "id"); ok {
			reply(c, h.contentUC.DeleteExperience(ctx, category, idx), "Experience deleted successfully!")
		}
	default:
		unknownAction(c)
	}
}

// --- education ---

func (h *AdminHandler) listEducation(c *gin.Context) {
	items, err := h.contentUC.ListEducation(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education", items)
}

func (h *AdminHandler) postEducation(c *gin.Context) {
	ctx := c.Request.Context()
	switch formValue(c, "action") {
	case "add":
		var in domain.EducationInput
		if bindForm(c, &in) {
			reply(c, h.contentUC.AddEducation(ctx, in), "Education added successfully!")
		}
	case "edit":
		idx, ok := formIndex(c, "id")
		var in domain.EducationInput
		if ok && bindForm(c, &in) {
			reply(c, h.contentUC.EditEducation(ctx, idx, in), "Education updated successfully!")
		}
	case "delete":
		if idx, ok := formIndex(c, "id"); ok {
			reply(c, h.contentUC.DeleteEducation(ctx, idx), "Education entry deleted successfully!")
		}
	default:
		unknownAction(c)
	}
}

// --- contact ---

func (h *AdminHandler) getContact(c *gin.Context) {
	contact, err := h.contentUC.GetContact(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Contact", contact)
}

func (h *AdminHandler) postContact(c *gin.Context) {
	var in domain.ContactInfoInput
	if bindForm(c, &in) {
		reply(c, h.contentUC.UpdateContact(c.Request.Context(), in), "Contact settings updated successfully!")
	}
}

// --- about ---

func (h *AdminHandler) getAbout(c *gin.Context) {
	about, err := h.contentUC.GetAbout(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "About", about)
}

func (h *AdminHandler) postAbout(c *gin.Context) {
	ctx := c.Request.Context()

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		header, err := c.FormFile("profile_pic")
		switch {
		case err == nil:
			h.uploadProfilePicture(c, header)
			return
		case !errors.Is(err, http.ErrMissingFile):
			c.Error(apperror.BadRequest("Invalid upload"))
			return
		}
	}

	switch formValue(c, "action") {
	case "add_hero_button":
		var in domain.HeroButtonInput
		if bindForm(c, &in) {
			reply(c, h.contentUC.AddHeroButton(ctx, in), "New hero button added successfully!")
		}
	case "edit_hero_button":
		idx, ok := formIndex(c, "button_index")
		var in domain.HeroButtonInput
		if ok && bindForm(c, &in) {
			in.IsVisible = formValue(c, "is_visible") == "true"
			reply(c, h.contentUC.EditHeroButton(ctx, idx, in), "Hero button updated successfully!")
		}
	case "delete_hero_button":
		if idx, ok := formIndex(c, "button_index"); ok {
			reply(c, h.contentUC.DeleteHeroButton(ctx, idx), "Hero button deleted successfully!")
		}
	case "", "update_about":
		var in domain.AboutInput
		if bindForm(c, &in) {
			reply(c, h.contentUC.UpdateAbout(ctx, in), "About settings updated successfully!")
		}
	default:
		unknownAction(c)
	}
}

func (h *AdminHandler) uploadProfilePicture(c *gin.Context, header *multipart.FileHeader) {
	file, err := header.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Invalid upload"))
		return
	}
	defer file.Close()

	pic, err := h.contentUC.UpdateProfilePicture(c.Request.Context(), domain.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile picture updated successfully!", pic)
}

// --- settings and portfolios ---

func (h *AdminHandler) getSettings(c *gin.Context) {
	view, err := h.settingsUC.GetSettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Settings", view)
}

func (h *AdminHandler) postSettings(c *gin.Context) {
	ctx := c.Request.Context()

	switch formValue(c, "action") {
	case "update_system_settings":
		reply(c, h.settingsUC.UpdateSystemSettings(ctx, domain.SystemSettingsInput{
			DefaultPortfolio:  formValue(c, "default_portfolio"),
			AllowPublicAccess: formValue(c, "allow_public_access") == "on",
			MaintenanceMode:   formValue(c, "maintenance_mode") == "on",
			DefaultTheme:      formValue(c, "default_theme"),
			SectionAlignment:  formValue(c, "section_alignment"),
		}), "System settings updated successfully!")

	case "update_site_settings":
		var in domain.SiteSettingsInput
		if bindForm(c, &in) {
			reply(c, h.settingsUC.UpdateSiteSettings(ctx, in), "Site settings updated successfully!")
		}

	case "create_portfolio":
		var in domain.PortfolioInput
		if !bindForm(c, &in) {
			return
		}
		created, err := h.settingsUC.CreatePortfolio(ctx, in)
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusCreated, "Portfolio created successfully!", created)

	case "edit_portfolio":
		id, ok := requiredValue(c, "portfolio_id")
		var in domain.PortfolioInput
		if ok && bindForm(c, &in) {
			reply(c, h.settingsUC.EditPortfolio(ctx, id, in), "Portfolio updated successfully!")
		}

	case "set_active":
		if id, ok := requiredValue(c, "portfolio_id"); ok {
			reply(c, h.settingsUC.SetActivePortfolio(ctx, id), "Active portfolio updated successfully!")
		}

	case "delete_portfolio":
		if id, ok := requiredValue(c, "portfolio_id"); ok {
			reply(c, h.settingsUC.DeletePortfolio(ctx, id), "Portfolio deleted successfully!")
		}

	case "duplicate_portfolio":
		dup, err := h.settingsUC.DuplicatePortfolio(ctx, formValue(c, "portfolio_id"), formValue(c, "new_name"))
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusCreated, "Portfolio duplicated successfully!", dup)

	default:
		unknownAction(c)
	}
}

// --- credentials ---

func (h *AdminHandler) changePassword(c *gin.Context) {
	var in domain.ChangePasswordInput
	if bindForm(c, &in) {
		reply(c, h.authUC.ChangePassword(c.Request.Context(), in), "Password updated successfully!")
	}
}

func (h *AdminHandler) changeUsername(c *gin.Context) {
	var in domain.ChangeUsernameInput
	if !bindForm(c, &in) {
		return
	}
	token, err := h.authUC.ChangeUsername(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	setSession(c, token, h.authUC.SessionTTL(), h.cookieSecure)
	response.Success(c, http.StatusOK, "Username updated successfully!", nil)
}

// --- export ---

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// export serves the whole document as JSON, or with format=xlsx the reported
// portfolio as a spreadsheet.
func (h *AdminHandler) export(c *gin.Context) {
	ctx := c.Request.Context()
	switch c.DefaultQuery("format", "json") {
	case "json":
		data, err := h.settingsUC.Export(ctx)
		if err != nil {
			c.Error(err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="portfolio_data.json"`)
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	case "xlsx":
		data, err := h.settingsUC.ExportWorkbook(ctx)
		if err != nil {
			c.Error(err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="portfolio_data.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, data)
	default:
		c.Error(apperror.BadRequest("Export format must be json or xlsx"))
	}
}

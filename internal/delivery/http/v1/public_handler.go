package v1

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type PublicHandler struct {
	publicUC domain.PublicUsecase
}

// NewPublicHandler registers the public read routes. The session, when present,
// lets the admin preview the site while it is closed to visitors.
func NewPublicHandler(public *gin.RouterGroup, publicUC domain.PublicUsecase, optionalAuth gin.HandlerFunc) {
	handler := &PublicHandler{publicUC: publicUC}

	public.GET("/portfolio", optionalAuth, handler.Current)
	public.GET("/portfolios/:id", optionalAuth, handler.ByID)
}

// Current godoc
// @Summary      Current portfolio
// @Description  The active portfolio, or the legacy top-level content when none is active.
// @Tags         public
// @Produce      json
// @Success      200  {object}  response.Envelope{data=domain.PublicPortfolio}
// @Failure      403  {object}  response.Envelope
// @Failure      503  {object}  response.Envelope
// @Router       /portfolio [get]
func (h *PublicHandler) Current(c *gin.Context) {
	view, err := h.publicUC.Current(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Portfolio", view)
}

// ByID godoc
// @Summary      Portfolio by id
// @Tags         public
// @Produce      json
// @Param        id   path      string  true  "Portfolio ID"
// @Success      200  {object}  response.Envelope{data=domain.PublicPortfolio}
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Failure      503  {object}  response.Envelope
// @Router       /portfolios/{id} [get]
func (h *PublicHandler) ByID(c *gin.Context) {
	view, err := h.publicUC.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Portfolio", view)
}

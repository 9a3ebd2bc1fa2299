package dashboard

import (
	"net/http"

	"gymdesk/internal/api"
	"gymdesk/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Stats godoc
// @Summary      Dashboard statistics
// @Description  Member, revenue, expense and chart figures for the back office home page. Staff only.
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Stats
// @Failure      403  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /dashboard [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		logger.Error("failed to build dashboard", "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

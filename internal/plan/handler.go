package plan

import (
	"net/http"

	"gymdesk/internal/api"
	"gymdesk/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Active godoc
// @Summary      Active subscription plans
// @Description  Plans that can be chosen for a new payment or a renewal, cheapest first.
// @Tags         finance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Plan
// @Failure      500  {object}  api.ErrorResponse
// @Router       /finance/plans/active [get]
func (h *Handler) Active(c *gin.Context) {
	plans, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		logger.Error("failed to list active plans", "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load plans"})
		return
	}
	c.JSON(http.StatusOK, plans)
}

package notification

import (
	"context"
	"net/http"

	"gymdesk/internal/api"
	"gymdesk/internal/crud"

	"github.com/gin-gonic/gin"
)

type retrier interface {
	Retry(ctx context.Context, id int) (*Result, error)
}

type Handler struct {
	dispatcher retrier
}

func NewHandler(dispatcher retrier) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// Retry godoc
// @Summary      Retry a notification
// @Description  Re-sends a stored notification to its recipient and updates the same record.
// @Tags         whisper
// @Security     BearerAuth
// @Produce      json
// @Param        pk   path      int  true  "Notification ID"
// @Success      200  {object}  api.AckResponse
// @Failure      404  {object}  api.AckResponse
// @Failure      502  {object}  api.AckResponse
// @Router       /whisper/notifications/{pk}/retry [post]
func (h *Handler) Retry(c *gin.Context) {
	id, ok := crud.PK(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.AckResponse{Status: "error", Message: "Email Notification not found"})
		return
	}

	res, err := h.dispatcher.Retry(c.Request.Context(), id)
	if err != nil {
		crud.Fail(c, "Email Notification", err)
		return
	}

	if !res.Sent() {
		c.JSON(http.StatusBadGateway, api.AckResponse{
			Status:  "error",
			Message: "Email delivery failed: " + res.Error,
			ID:      id,
		})
		return
	}

	c.JSON(http.StatusOK, api.AckResponse{
		Status:  "success",
		Message: "Email sent successfully",
		ID:      id,
	})
}

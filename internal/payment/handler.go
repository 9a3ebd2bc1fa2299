package payment

import (
	"context"
	"net/http"
	"strconv"

	"gymdesk/internal/api"
	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
	"gymdesk/internal/notification"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const memberDetailRoute = "finance:member_detail"

type Handler struct {
	reg      *crud.Registry
	svc      Service
	onChange func(ctx context.Context)
}

func NewHandler(reg *crud.Registry, svc Service, onChange func(ctx context.Context)) *Handler {
	return &Handler{reg: reg, svc: svc, onChange: onChange}
}

// Renew godoc
// @Summary      Renew a subscription
// @Description  Records a paid payment for the next period of the member's subscription. The period continues an unexpired window and starts today otherwise.
// @Tags         finance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        pk       path      int         true  "Member ID"
// @Param        request  body      RenewInput  true  "Renewal details"
// @Success      200      {object}  api.AckResponse
// @Failure      400      {object}  api.AckResponse
// @Failure      404      {object}  api.AckResponse
// @Failure      503      {object}  api.AckResponse
// @Router       /finance/members/{pk}/renew [post]
func (h *Handler) Renew(c *gin.Context) {
	memberID, ok := crud.PK(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.AckResponse{Status: "error", Message: "Member not found"})
		return
	}

	var in RenewInput
	if !h.reg.Bind(c, &in) {
		return
	}

	ctx := c.Request.Context()
	actor := auth.CurrentActor(c)

	var paymentID int
	err := h.reg.Write(ctx, "renewal", func(tx *sqlx.Tx) error {
		id, err := h.svc.Renew(ctx, tx, actor, memberID, &in)
		paymentID = id
		return err
	})
	if err != nil {
		crud.Fail(c, "Member", err)
		return
	}

	metrics.RecordRenewal()
	logger.Info("subscription renewed", "member_id", memberID, "payment_id", paymentID, "plan_id", in.SubscriptionPlanID)

	h.svc.SendReceipt(ctx, paymentID, notification.TemplateRenewal)
	if h.onChange != nil {
		h.onChange(ctx)
	}

	redirect, _ := h.reg.URLs.Reverse(memberDetailRoute, strconv.Itoa(memberID))
	c.JSON(http.StatusOK, api.AckResponse{
		Status:      "success",
		Message:     "Subscription renewed successfully",
		ID:          paymentID,
		RedirectURL: redirect,
	})
}

package aggregator

import (
	"net/http"

	"go-saas/internal/shared/apperror"
	"go-saas/internal/shared/contextutil"
	"go-saas/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("aggregator.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("aggregator.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) GetUsage(c *gin.Context) {
	companyID := c.GetString("company_id")

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	usage, err := h.svc.GetUsage(ctx, companyID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, usage, nil)
}

// TriggerRefresh schedules a rebuild and returns immediately; the
// refresh itself runs out of band.
func (h *Handler) TriggerRefresh(c *gin.Context) {
	companyID := c.GetString("company_id")

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	h.svc.Schedule(ctx, companyID, "manual_refresh")

	c.Status(http.StatusAccepted)
}

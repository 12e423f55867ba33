package passwordreset

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
	l := zap.L().Named("passwordreset.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("passwordreset.handler")
	}
	return &Handler{svc: service, logger: l}
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}

type requestResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type confirmResetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *Handler) Request(c *gin.Context) {
	var req requestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	if err := h.svc.Request(ctx, req.Email); err != nil {
		writeError(c, err)
		return
	}

	// Same body whether or not the email exists.
	response.Success(c, http.StatusOK, "If the email is registered, a reset link has been sent.", nil)
}

func (h *Handler) Confirm(c *gin.Context) {
	var req confirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	if err := h.svc.Confirm(ctx, req.Token, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Password has been reset.", nil)
}

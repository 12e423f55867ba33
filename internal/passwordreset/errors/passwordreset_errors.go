package passwordreseterrors

import (
	"net/http"

	"go-saas/internal/shared/apperror"
)

var (
	ErrInvalidResetToken = &apperror.AppError{
		Code:       apperror.CodeUnauthorized,
		Message:    "Reset token is invalid or already used.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrResetTokenExpired = &apperror.AppError{
		Code:       apperror.CodeTokenExpired,
		Message:    "Reset token has expired.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

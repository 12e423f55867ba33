package fileerrors

import (
	"net/http"

	"go-saas/internal/shared/apperror"
)

var (
	ErrFileNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "File not found.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrFileNotPending = &apperror.AppError{
		Code:       apperror.CodeInvalidState,
		Message:    "File upload is not pending confirmation.",
		HTTPStatus: http.StatusConflict,
	}

	ErrInvalidFileSize = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "File size must be greater than zero.",
		HTTPStatus: http.StatusBadRequest,
	}
)

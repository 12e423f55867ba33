package signuperrors

import (
	"net/http"

	"go-saas/internal/shared/apperror"
)

var (
	ErrCompanyNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Company name cannot be reduced to a valid subdomain",
		http.StatusBadRequest,
	)

	ErrSubdomainExhausted = apperror.New(
		apperror.CodeConflict,
		"Could not allocate an unused subdomain",
		http.StatusConflict,
	)
)

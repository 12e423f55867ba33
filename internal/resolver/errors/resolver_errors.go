package resolvererrors

import (
	"net/http"

	"go-saas/internal/shared/apperror"
)

var (
	// ErrNotFound means the hint matched no schema. Security-sensitive
	// callers (password reset, invitation lookup) must not surface it.
	ErrNotFound = apperror.New(
		apperror.CodeNotFound,
		"No matching account found",
		http.StatusNotFound,
	)

	ErrInvalidSchema = apperror.New(
		apperror.CodeUnauthorized,
		"Token references an unknown schema",
		http.StatusUnauthorized,
	)

	ErrRegistryUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Tenant registry is unavailable",
		http.StatusServiceUnavailable,
	)
)

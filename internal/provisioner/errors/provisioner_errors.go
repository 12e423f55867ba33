package provisionererrors

import (
	"net/http"

	"go-saas/internal/shared/apperror"
)

// Each failure mode gets its own error so callers can tell a name
// collision from a broken clone from a broken seed. Signup retries only
// on the first.
var (
	ErrDuplicateSubdomain = apperror.New(
		apperror.CodeConflict,
		"Subdomain is already taken",
		http.StatusConflict,
	)

	ErrInvalidSubdomain = apperror.New(
		apperror.CodeInvalidInput,
		"Subdomain must be lowercase letters, digits and hyphens",
		http.StatusBadRequest,
	)

	ErrSchemaCloneFailed = apperror.New(
		apperror.CodeProvisionFailed,
		"Failed to clone tenant schema",
		http.StatusInternalServerError,
	)

	ErrOwnerCreateFailed = apperror.New(
		apperror.CodeProvisionFailed,
		"Failed to create initial owner account",
		http.StatusInternalServerError,
	)

	ErrAlreadyProvisioned = apperror.New(
		apperror.CodeConflict,
		"Company schema is already provisioned",
		http.StatusConflict,
	)
)

package registryerrors

import (
	"net/http"

	"go-saas/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Company not found",
		http.StatusNotFound,
	)

	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)

	ErrCompanyNotActive = apperror.New(
		apperror.CodeInvalidState,
		"Company schema is not active",
		http.StatusConflict,
	)
)

package invitationerrors

import (
	"net/http"

	"go-saas/internal/shared/apperror"
)

var (
	ErrInvitationNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "Invitation not found.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrInvitationExpired = &apperror.AppError{
		Code:       apperror.CodeTokenExpired,
		Message:    "Invitation has expired.",
		HTTPStatus: http.StatusGone,
	}

	ErrInvitationNotPending = &apperror.AppError{
		Code:       apperror.CodeConflict,
		Message:    "Invitation is no longer pending.",
		HTTPStatus: http.StatusConflict,
	}

	ErrEmailAlreadyInvited = &apperror.AppError{
		Code:       apperror.CodeConflict,
		Message:    "An invitation for this email is already pending.",
		HTTPStatus: http.StatusConflict,
	}

	ErrEmailAlreadyMember = &apperror.AppError{
		Code:       apperror.CodeConflict,
		Message:    "Email already belongs to a member of this company.",
		HTTPStatus: http.StatusConflict,
	}

	ErrInvalidInvitationRole = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "Invalid role for invitation.",
		HTTPStatus: http.StatusBadRequest,
	}
)

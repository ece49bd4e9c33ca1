package leaveerrors

import (
	"fmt"
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrMissingReason = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrInvalidDuration = apperror.New(
		apperror.CodeInvalidInput,
		"leave duration must be greater than zero",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrCompanyEmailRequired = apperror.New(
		apperror.CodeForbidden,
		"leave may only be requested with a verified company email",
		http.StatusForbidden,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requesting employee may cancel this request",
		http.StatusForbidden,
	)
	ErrDuplicateRequest = apperror.New(
		apperror.CodeConflict,
		"an identical leave request already exists",
		http.StatusConflict,
	)
)

// InvalidTransition reports an illegal state-machine edge. The current
// status travels in Details so idempotent callers can treat "already
// decided" precisely.
func InvalidTransition(action, currentStatus string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("cannot %s a request that is already %s", action, currentStatus),
		http.StatusConflict,
	).WithDetails(map[string]string{"current_status": currentStatus})
}

package balanceerrors

import (
	"fmt"
	"net/http"

	"go-leave/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDebitAmount = apperror.New(
		apperror.CodeInvalidInput,
		"debit amount must be positive",
		http.StatusBadRequest,
	)
)

// Insufficient reports a shortfall without mutating anything. Available and
// requested travel in Details so the client can render an exact message.
func Insufficient(leaveType string, available, requested decimal.Decimal) *apperror.AppError {
	return apperror.New(
		apperror.CodeInsufficientBalance,
		fmt.Sprintf("insufficient %s balance: %s available, %s requested",
			leaveType, available.String(), requested.String()),
		http.StatusUnprocessableEntity,
	).WithDetails(map[string]string{
		"leave_type": leaveType,
		"available":  available.String(),
		"requested":  requested.String(),
	})
}

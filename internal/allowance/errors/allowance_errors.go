package allowanceerrors

import (
	"net/http"

	"go-leaveflow/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year is out of range",
		http.StatusBadRequest,
	)
	ErrInvalidDelta = apperror.New(
		apperror.CodeInvalidInput,
		"adjustment must be a non-zero multiple of 0.5",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"adjustment reason is required",
		http.StatusBadRequest,
	)
	ErrUnlimitedAllowance = apperror.New(
		apperror.CodeInvalidInput,
		"company has unlimited allowance, adjustments do not apply",
		http.StatusBadRequest,
	)
)

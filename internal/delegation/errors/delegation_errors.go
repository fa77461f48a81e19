package delegationerrors

import (
	"net/http"

	"go-leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidSupervisorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid supervisor id",
		http.StatusBadRequest,
	)
	ErrInvalidDelegateID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid delegate id",
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
	ErrSelfDelegation = apperror.New(
		apperror.CodeInvalidInput,
		"supervisor cannot delegate to themselves",
		http.StatusBadRequest,
	)
	ErrNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"supervisor and delegate must belong to this company",
		http.StatusBadRequest,
	)
	ErrDelegationNotFound = apperror.New(
		apperror.CodeNotFound,
		"delegation not found",
		http.StatusNotFound,
	)
)

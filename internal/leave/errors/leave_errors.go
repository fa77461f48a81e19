package leaveerrors

import (
	"net/http"

	"go-leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"date_start must be before or equal date_end",
		http.StatusBadRequest,
	)
	ErrInvalidDayPart = apperror.New(
		apperror.CodeInvalidInput,
		"day part must be ALL, MORNING or AFTERNOON",
		http.StatusBadRequest,
	)
	ErrZeroDuration = apperror.New(
		apperror.CodeInvalidInput,
		"requested period contains no working time",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrReferenceConflict = apperror.New(
		apperror.CodeConflict,
		"reference number already taken, retry the submission",
		http.StatusConflict,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"an open or approved request already covers part of this period",
		http.StatusConflict,
	)
	ErrInsufficientAllowance = apperror.New(
		apperror.CodeConflict,
		"not enough remaining allowance for this period",
		http.StatusConflict,
	)
	ErrStateConflict = apperror.New(
		apperror.CodeInvalidState,
		"request is not awaiting a decision",
		http.StatusConflict,
	)
	ErrNotAuthorizedToDecide = apperror.New(
		apperror.CodeForbidden,
		"no actionable approval for this user",
		http.StatusForbidden,
	)
	ErrSelfApproval = apperror.New(
		apperror.CodeForbidden,
		"requester cannot decide their own request",
		http.StatusForbidden,
	)
	ErrCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a comment is required when rejecting",
		http.StatusBadRequest,
	)
	ErrNotRequester = apperror.New(
		apperror.CodeForbidden,
		"only the requester can cancel this request",
		http.StatusForbidden,
	)
	ErrActorNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"acting user does not belong to this company",
		http.StatusBadRequest,
	)
)

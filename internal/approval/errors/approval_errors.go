package approvalerrors

import (
	"net/http"

	"go-leaveflow/internal/shared/apperror"
)

var (
	ErrRequesterNotFound = apperror.New(
		apperror.CodeNotFound,
		"requesting employee not found",
		http.StatusNotFound,
	)
	ErrNoApprover = apperror.New(
		apperror.CodeUnroutable,
		"no valid approver could be resolved for this request",
		http.StatusUnprocessableEntity,
	)
)

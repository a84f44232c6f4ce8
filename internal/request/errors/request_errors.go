package requesterrors

import (
	"net/http"

	"staff-portal/internal/shared/apperror"
)

var (
	ErrInvalidRequestType = apperror.New(
		apperror.CodeInvalidInput,
		"request type must be leave or overtime",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date-time format, expected YYYY-MM-DDTHH:MM",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidRange,
		"end date cannot be earlier than start date",
		http.StatusBadRequest,
	)
	ErrInvalidOutcome = apperror.New(
		apperror.CodeInvalidInput,
		"outcome must be Approved or Rejected",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"request not found",
		http.StatusNotFound,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"only pending requests can be decided",
		http.StatusBadRequest,
	)
	ErrCancellationReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"cancellation reason is required",
		http.StatusBadRequest,
	)
	ErrCancellationPending = apperror.New(
		apperror.CodeInvalidState,
		"a cancellation request is already pending for this request",
		http.StatusBadRequest,
	)
	ErrCancelNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"request cannot be cancelled in its current status",
		http.StatusBadRequest,
	)
	ErrLeaveElapsed = apperror.New(
		apperror.CodeInvalidState,
		"an already elapsed leave cannot be cancelled",
		http.StatusBadRequest,
	)
	ErrNoCancellationPending = apperror.New(
		apperror.CodeInvalidState,
		"no cancellation request is pending for this request",
		http.StatusBadRequest,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the submitting employee may cancel this request",
		http.StatusForbidden,
	)
	ErrApproverRoleRequired = apperror.New(
		apperror.CodeForbidden,
		"only department heads and HR may decide requests",
		http.StatusForbidden,
	)
	ErrDepartmentScope = apperror.New(
		apperror.CodeForbidden,
		"request belongs to another department",
		http.StatusForbidden,
	)
	ErrHRRoleRequired = apperror.New(
		apperror.CodeForbidden,
		"only HR may view requests across all departments",
		http.StatusForbidden,
	)
)

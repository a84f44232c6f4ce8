package employeeerrors

import (
	"net/http"

	"staff-portal/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An employee with the same email already exists",
		http.StatusConflict,
	)
	ErrBadgeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee ID is already taken",
		http.StatusConflict,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be Employee, Head or HR",
		http.StatusBadRequest,
	)
)

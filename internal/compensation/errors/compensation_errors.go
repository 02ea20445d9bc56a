package compensationerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
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
	ErrInvalidSalary = apperror.New(
		apperror.CodeInvalidInput,
		"base salary cannot be negative",
		http.StatusBadRequest,
	)
	ErrCompensationNotFound = apperror.New(
		apperror.CodeNotFound,
		"compensation not found",
		http.StatusNotFound,
	)
	ErrNoCompensation = apperror.New(
		apperror.CodeInvalidState,
		"employee has no compensation effective for the requested date",
		http.StatusUnprocessableEntity,
	)
	ErrEffectiveDateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"compensation with the same effective date already exists",
		http.StatusConflict,
	)
)

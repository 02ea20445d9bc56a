package payrollperioderrors

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
	ErrInvalidPeriodType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period type",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrInvalidPayDate = apperror.New(
		apperror.CodeInvalidInput,
		"pay date must not be before end date",
		http.StatusBadRequest,
	)
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll period not found",
		http.StatusNotFound,
	)
	ErrOverlappingPeriod = apperror.New(
		apperror.CodeConflict,
		"payroll period overlaps an existing period",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payroll period status transition",
		http.StatusUnprocessableEntity,
	)
)

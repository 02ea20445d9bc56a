package payrollerrors

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
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period id",
		http.StatusBadRequest,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payroll status transition",
		http.StatusUnprocessableEntity,
	)
	ErrVoidReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"void reason is required",
		http.StatusBadRequest,
	)
	ErrPayslipNotGenerated = apperror.New(
		apperror.CodeInvalidState,
		"payslip has not been generated",
		http.StatusUnprocessableEntity,
	)
	ErrPayrollNotReleased = apperror.New(
		apperror.CodeInvalidState,
		"payslip can only be generated for a released payroll",
		http.StatusUnprocessableEntity,
	)
)

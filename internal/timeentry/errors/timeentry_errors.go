package timeentryerrors

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
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"already clocked in for today",
		http.StatusConflict,
	)
	ErrClockInNotFound = apperror.New(
		apperror.CodeNotFound,
		"clock in not found for today",
		http.StatusNotFound,
	)
	ErrAlreadyClockedOut = apperror.New(
		apperror.CodeInvalidState,
		"already clocked out for today",
		http.StatusBadRequest,
	)
	ErrTimeEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"time entry not found",
		http.StatusNotFound,
	)
	ErrEntryAlreadyClosed = apperror.New(
		apperror.CodeInvalidState,
		"time entry is already closed",
		http.StatusBadRequest,
	)
	ErrBreakAlreadyOpen = apperror.New(
		apperror.CodeConflict,
		"an unfinished break already exists for this entry",
		http.StatusConflict,
	)
	ErrNoOpenBreak = apperror.New(
		apperror.CodeNotFound,
		"no unfinished break found for this entry",
		http.StatusNotFound,
	)
)

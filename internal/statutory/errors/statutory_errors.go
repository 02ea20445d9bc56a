package statutoryerrors

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
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"invalid statutory kind",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidBracket = apperror.New(
		apperror.CodeInvalidInput,
		"invalid bracket definition",
		http.StatusBadRequest,
	)
	ErrNoApplicableRate = apperror.New(
		apperror.CodeInvalidState,
		"no statutory rate table effective for the requested date",
		http.StatusUnprocessableEntity,
	)
)

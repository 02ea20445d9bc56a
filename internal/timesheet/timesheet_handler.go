package timesheet

import (
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"
	timesheeterrors "go-payroll/internal/timesheet/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	calculator *Calculator
}

func NewHandler(calculator *Calculator) *Handler {
	return &Handler{calculator: calculator}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetPeriod adalah preview read-only; tidak ada yang dipersist.
func (h *Handler) GetPeriod(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		employeeID = c.GetString("employee_id")
	}

	start, err := parseDateQuery(c.Query("start_date"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	end, err := parseDateQuery(c.Query("end_date"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.calculator.CalculatePeriod(c.Request.Context(), companyID, employeeID, start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func parseDateQuery(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, timesheeterrors.ErrInvalidDateFormat
	}
	return t, nil
}

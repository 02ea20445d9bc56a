package payrollperiod

type CreatePayrollPeriodRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Type      string `json:"type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	PayDate   string `json:"pay_date" binding:"required"`
}

type UpdatePayrollPeriodStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PayrollPeriodResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	PayDate   string `json:"pay_date"`
	Status    string `json:"status"`
}

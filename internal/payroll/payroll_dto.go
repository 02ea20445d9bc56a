package payroll

type GeneratePayrollRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	PeriodID   string `json:"period_id" binding:"required,uuid"`
}

type VoidPayrollRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type GetPayrollsFilterRequest struct {
	EmployeeID string `form:"employee_id"`
	PeriodID   string `form:"period_id"`
	Status     string `form:"status"`
}

type PayrollEarningResponse struct {
	Type       string `json:"type"`
	Minutes    int64  `json:"minutes"`
	HourlyRate int64  `json:"hourly_rate"`
	Amount     int64  `json:"amount"`
}

type PayrollDeductionResponse struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
}

type PayrollLogResponse struct {
	Action         string  `json:"action"`
	PreviousStatus string  `json:"previous_status"`
	NewStatus      string  `json:"new_status"`
	ActorID        string  `json:"actor_id"`
	Reason         *string `json:"reason,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type PayrollResponse struct {
	ID           string `json:"id"`
	CompanyID    string `json:"company_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	PeriodID     string `json:"period_id"`

	GrossPay        int64 `json:"gross_pay"`
	TaxableIncome   int64 `json:"taxable_income"`
	TotalDeductions int64 `json:"total_deductions"`
	NetPay          int64 `json:"net_pay"`

	Status     string  `json:"status"`
	CreatedBy  string  `json:"created_by"`
	ApprovedBy *string `json:"approved_by,omitempty"`
	ApprovedAt *string `json:"approved_at,omitempty"`
	ReleasedBy *string `json:"released_by,omitempty"`
	ReleasedAt *string `json:"released_at,omitempty"`
	VoidedBy   *string `json:"voided_by,omitempty"`
	VoidedAt   *string `json:"voided_at,omitempty"`
	VoidReason *string `json:"void_reason,omitempty"`

	PayslipURL         *string `json:"payslip_url,omitempty"`
	PayslipGeneratedAt *string `json:"payslip_generated_at,omitempty"`

	Earnings   []PayrollEarningResponse   `json:"earnings"`
	Deductions []PayrollDeductionResponse `json:"deductions"`
}

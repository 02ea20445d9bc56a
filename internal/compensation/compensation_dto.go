package compensation

type CreateCompensationRequest struct {
	EmployeeID    string `json:"employee_id" binding:"required"`
	BaseSalary    int64  `json:"base_salary" binding:"required"`
	EffectiveDate string `json:"effective_date" binding:"required"`
}

type CompensationResponse struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name,omitempty"`
	BaseSalary    int64  `json:"base_salary"`
	EffectiveDate string `json:"effective_date"`
}

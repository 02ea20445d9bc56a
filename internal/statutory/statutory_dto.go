package statutory

type CreateRateBracketRequest struct {
	LowerBound int64  `json:"lower_bound" binding:"min=0"`
	UpperBound *int64 `json:"upper_bound"`
	BaseAmount int64  `json:"base_amount" binding:"min=0"`
	RateBp     int64  `json:"rate_bp" binding:"min=0"`
}

type CreateRateTableRequest struct {
	Kind          string `json:"kind" binding:"required"`
	EffectiveDate string `json:"effective_date" binding:"required"`
	Global        bool   `json:"global"`

	RateBp        int64 `json:"rate_bp" binding:"min=0"`
	MinSalaryBase int64 `json:"min_salary_base" binding:"min=0"`
	MaxSalaryBase int64 `json:"max_salary_base" binding:"min=0"`

	AnnualExemption int64 `json:"annual_exemption" binding:"min=0"`

	Brackets []CreateRateBracketRequest `json:"brackets" binding:"dive"`
}

type RateBracketResponse struct {
	ID         string `json:"id"`
	LowerBound int64  `json:"lower_bound"`
	UpperBound *int64 `json:"upper_bound,omitempty"`
	BaseAmount int64  `json:"base_amount"`
	RateBp     int64  `json:"rate_bp"`
}

type RateTableResponse struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id,omitempty"`
	Kind          string `json:"kind"`
	EffectiveDate string `json:"effective_date"`

	RateBp        int64 `json:"rate_bp"`
	MinSalaryBase int64 `json:"min_salary_base"`
	MaxSalaryBase int64 `json:"max_salary_base"`

	AnnualExemption int64 `json:"annual_exemption"`

	Brackets []RateBracketResponse `json:"brackets,omitempty"`
}

type PreviewDeductionsRequest struct {
	Gross int64  `json:"gross" binding:"min=0"`
	AsOf  string `json:"as_of" binding:"required"`
}

type PreviewDeductionsResponse struct {
	Gross           int64 `json:"gross"`
	SSS             int64 `json:"sss"`
	PhilHealth      int64 `json:"philhealth"`
	PagIbig         int64 `json:"pagibig"`
	TaxableIncome   int64 `json:"taxable_income"`
	Tax             int64 `json:"tax"`
	TotalDeductions int64 `json:"total_deductions"`
}

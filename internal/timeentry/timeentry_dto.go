package timeentry

type ClockInRequest struct {
	Source string  `json:"source"`
	Notes  *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

type StartBreakRequest struct {
	Paid bool `json:"paid"`
}

type BreakResponse struct {
	ID          string  `json:"id"`
	TimeEntryID string  `json:"time_entry_id"`
	BreakStart  string  `json:"break_start"`
	BreakEnd    *string `json:"break_end,omitempty"`
	Paid        bool    `json:"paid"`
}

type TimeEntryResponse struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	EmployeeID string          `json:"employee_id"`
	WorkDate   string          `json:"work_date"`
	ClockIn    string          `json:"clock_in"`
	ClockOut   *string         `json:"clock_out,omitempty"`
	Status     string          `json:"status"`
	Source     string          `json:"source"`
	Notes      *string         `json:"notes,omitempty"`
	Breaks     []BreakResponse `json:"breaks,omitempty"`
}

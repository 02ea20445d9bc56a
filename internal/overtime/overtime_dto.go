package overtime

type CreateOvertimeRequest struct {
	EmployeeID       string `json:"employee_id" binding:"required"`
	WorkDate         string `json:"work_date" binding:"required"`
	RequestedMinutes int64  `json:"requested_minutes" binding:"required"`
	Reason           string `json:"reason" binding:"required"`
}

type ApproveOvertimeRequest struct {
	// Jika kosong, jumlah yang diminta disetujui penuh
	ApprovedMinutes *int64 `json:"approved_minutes"`
}

type RejectOvertimeRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type OvertimeResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     string  `json:"employee_name,omitempty"`
	WorkDate         string  `json:"work_date"`
	RequestedMinutes int64   `json:"requested_minutes"`
	ApprovedMinutes  *int64  `json:"approved_minutes,omitempty"`
	Reason           string  `json:"reason"`
	Status           string  `json:"status"`
	CreatedBy        string  `json:"created_by"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	RejectionReason  *string `json:"rejection_reason,omitempty"`
}

package overtime

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OvertimeRequest struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID       uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;index:idx_overtime_employee_date"`
	WorkDate         time.Time  `gorm:"column:work_date;type:date;not null;index:idx_overtime_employee_date"`
	RequestedMinutes int64      `gorm:"column:requested_minutes;type:bigint;not null"`
	ApprovedMinutes  *int64     `gorm:"column:approved_minutes;type:bigint"` // Pointer karena bisa null sebelum approval
	Reason           string     `gorm:"column:reason;type:text;not null"`
	Status           string     `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index"`
	CreatedBy        uuid.UUID  `gorm:"column:created_by;type:uuid;not null"`
	ApprovedBy       *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ApprovedAt       *time.Time `gorm:"column:approved_at;type:timestamptz"`
	RejectionReason  *string    `gorm:"column:rejection_reason;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (OvertimeRequest) TableName() string {
	return "overtime_requests"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

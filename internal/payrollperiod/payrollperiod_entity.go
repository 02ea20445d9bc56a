package payrollperiod

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PeriodTypeMonthly     = "MONTHLY"
	PeriodTypeSemiMonthly = "SEMI_MONTHLY"
	PeriodTypeBiWeekly    = "BI_WEEKLY"
	PeriodTypeWeekly      = "WEEKLY"
)

const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

type PayrollPeriod struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;type:varchar(100);not null"`
	Type      string    `gorm:"column:type;type:varchar(20);not null"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null"`
	PayDate   time.Time `gorm:"column:pay_date;type:date;not null"`
	Status    string    `gorm:"column:status;type:varchar(20);not null;default:'PENDING'"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (PayrollPeriod) TableName() string {
	return "payroll_periods"
}

func IsValidPeriodType(t string) bool {
	switch t {
	case PeriodTypeMonthly, PeriodTypeSemiMonthly, PeriodTypeBiWeekly, PeriodTypeWeekly:
		return true
	default:
		return false
	}
}

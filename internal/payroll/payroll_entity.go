package payroll

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EarningBaseSalary        = "BASE_SALARY"
	EarningOvertime          = "OVERTIME"
	EarningNightDifferential = "NIGHT_DIFFERENTIAL"
)

const (
	DeductionTax        = "TAX"
	DeductionSSS        = "SSS"
	DeductionPhilHealth = "PHILHEALTH"
	DeductionPagIbig    = "PAGIBIG"
	DeductionLate       = "LATE"
	DeductionAbsence    = "ABSENCE"
)

type Payroll struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_employee_period,unique"`
	PeriodID   uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_employee_period,unique"`

	// Financials disimpan dalam satuan terkecil untuk hindari floating error.
	GrossPay        int64 `gorm:"type:bigint;not null;default:0"`
	TaxableIncome   int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions int64 `gorm:"type:bigint;not null;default:0"`
	NetPay          int64 `gorm:"type:bigint;not null;default:0"`

	// Workflow & Audit
	Status     string     `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_payroll_company_status"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"` // Pointer karena bisa null
	ApprovedAt *time.Time `gorm:"index"`
	ReleasedBy *uuid.UUID `gorm:"type:uuid"`
	ReleasedAt *time.Time `gorm:"index"`
	VoidedBy   *uuid.UUID `gorm:"type:uuid"`
	VoidedAt   *time.Time
	VoidReason *string `gorm:"type:text"`

	PayslipURL         *string
	PayslipGeneratedAt *time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Earnings   []PayrollEarning   `gorm:"foreignKey:PayrollID"`
	Deductions []PayrollDeduction `gorm:"foreignKey:PayrollID"`
	Employee   *EmployeeRef       `gorm:"foreignKey:EmployeeID;references:ID"`
}

// PayrollEarning: amount = minutes * hourly_rate / 60.
type PayrollEarning struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(30);not null"`
	Minutes    int64     `gorm:"type:bigint;not null;default:0"`
	HourlyRate int64     `gorm:"type:bigint;not null;default:0"`
	Amount     int64     `gorm:"type:bigint;not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PayrollDeduction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(30);not null"`
	Amount    int64     `gorm:"type:bigint;not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollLog adalah jejak transisi status, append-only, tidak pernah diubah.
type PayrollLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Action         string    `gorm:"type:varchar(30);not null"`
	PreviousStatus string    `gorm:"type:varchar(20);not null"`
	NewStatus      string    `gorm:"type:varchar(20);not null"`
	ActorID        uuid.UUID `gorm:"type:uuid;not null"`
	Reason         *string   `gorm:"type:text"`
	CreatedAt      time.Time
}

func (PayrollLog) TableName() string {
	return "payroll_logs"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

func IsValidEarningType(t string) bool {
	switch t {
	case EarningBaseSalary, EarningOvertime, EarningNightDifferential:
		return true
	default:
		return false
	}
}

func IsValidDeductionType(t string) bool {
	switch t {
	case DeductionTax, DeductionSSS, DeductionPhilHealth, DeductionPagIbig, DeductionLate, DeductionAbsence:
		return true
	default:
		return false
	}
}

package compensation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gaji pokok bulanan disimpan dalam satuan terkecil (sen) untuk hindari
// floating error.
type Compensation struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID    uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index:uq_compensation_effective,unique"`
	BaseSalary    int64     `gorm:"column:base_salary;type:bigint;not null"`
	EffectiveDate time.Time `gorm:"column:effective_date;type:date;not null;index:uq_compensation_effective,unique"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Compensation) TableName() string {
	return "compensations"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

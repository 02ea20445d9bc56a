package timeentry

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

type TimeEntry struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;index:idx_entry_employee_date,unique"`
	WorkDate   time.Time  `gorm:"column:work_date;type:date;not null;index:idx_entry_employee_date,unique"`
	ClockIn    time.Time  `gorm:"column:clock_in;type:timestamptz;not null"`
	ClockOut   *time.Time `gorm:"column:clock_out;type:timestamptz"`
	Status     string     `gorm:"column:status;type:varchar(20);not null;default:OPEN;index"`
	Source     string     `gorm:"column:source;type:varchar(30);not null;default:MANUAL"`
	Notes      *string    `gorm:"column:notes;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Breaks   []TimeEntryBreak `gorm:"foreignKey:TimeEntryID"`
	Employee *EmployeeRef     `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

type TimeEntryBreak struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TimeEntryID uuid.UUID  `gorm:"column:time_entry_id;type:uuid;not null;index"`
	CompanyID   uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index"`
	BreakStart  time.Time  `gorm:"column:break_start;type:timestamptz;not null"`
	BreakEnd    *time.Time `gorm:"column:break_end;type:timestamptz"`
	Paid        bool       `gorm:"column:paid;not null;default:false"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (TimeEntryBreak) TableName() string {
	return "time_entry_breaks"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

package statutory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	KindTax        = "TAX"
	KindSSS        = "SSS"
	KindPhilHealth = "PHILHEALTH"
	KindPagIbig    = "PAGIBIG"
)

// RateTable adalah satu versi tabel tarif yang berlaku mulai effective_date.
// CompanyID null berarti tabel global; tabel milik company selalu menang.
type RateTable struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     *uuid.UUID `gorm:"column:company_id;type:uuid;index"`
	Kind          string     `gorm:"column:kind;type:varchar(20);not null;index"`
	EffectiveDate time.Time  `gorm:"column:effective_date;type:date;not null;index"`

	// Untuk kind kontribusi (SSS/PHILHEALTH/PAGIBIG): persen dalam basis poin
	// diterapkan pada gaji yang diklem ke [min_salary_base, max_salary_base].
	RateBp        int64 `gorm:"column:rate_bp;type:bigint;not null;default:0"`
	MinSalaryBase int64 `gorm:"column:min_salary_base;type:bigint;not null;default:0"`
	MaxSalaryBase int64 `gorm:"column:max_salary_base;type:bigint;not null;default:0"` // 0 = tanpa plafon

	// Untuk pajak bonus/13th month: bagian bonus di bawah nilai ini bebas pajak.
	AnnualExemption int64 `gorm:"column:annual_exemption;type:bigint;not null;default:0"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Brackets []RateBracket `gorm:"foreignKey:RateTableID"`
}

func (RateTable) TableName() string {
	return "statutory_rate_tables"
}

// RateBracket adalah satu baris tabel progresif (dipakai kind TAX).
// Pajak = base_amount + (penghasilan - lower_bound) * rate_bp / 10000.
type RateBracket struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RateTableID uuid.UUID `gorm:"column:rate_table_id;type:uuid;not null;index"`
	LowerBound  int64     `gorm:"column:lower_bound;type:bigint;not null"`
	UpperBound  *int64    `gorm:"column:upper_bound;type:bigint"` // null = bracket teratas
	BaseAmount  int64     `gorm:"column:base_amount;type:bigint;not null;default:0"`
	RateBp      int64     `gorm:"column:rate_bp;type:bigint;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (RateBracket) TableName() string {
	return "statutory_rate_brackets"
}

func IsValidKind(kind string) bool {
	switch kind {
	case KindTax, KindSSS, KindPhilHealth, KindPagIbig:
		return true
	default:
		return false
	}
}

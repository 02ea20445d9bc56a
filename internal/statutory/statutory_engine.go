package statutory

import (
	"context"
	"errors"
	"time"

	statutoryerrors "go-payroll/internal/statutory/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deductions adalah hasil engine untuk satu karyawan pada satu tanggal.
// Semua nilai dalam satuan minor, tidak pernah negatif.
type Deductions struct {
	Tax        int64 `json:"tax"`
	SSS        int64 `json:"sss"`
	PhilHealth int64 `json:"philhealth"`
	PagIbig    int64 `json:"pagibig"`
}

func (d Deductions) Total() int64 {
	return d.Tax + d.SSS + d.PhilHealth + d.PagIbig
}

// Engine menghitung potongan wajib dari tabel tarif yang berlaku.
// Tidak ada fallback diam-diam: tabel hilang = ErrNoApplicableRate.
type Engine struct {
	repo   Repository
	logger *zap.Logger
}

func NewEngine(repo Repository) *Engine {
	return &Engine{
		repo:   repo,
		logger: zap.L().Named("statutory.engine"),
	}
}

// ComputeContributions menghitung ketiga kontribusi berbasis persen dari gross.
func (e *Engine) ComputeContributions(ctx context.Context, companyID string, gross int64, asOf time.Time) (Deductions, error) {
	var out Deductions

	for _, kind := range []string{KindSSS, KindPhilHealth, KindPagIbig} {
		table, err := e.lookup(ctx, companyID, kind, asOf)
		if err != nil {
			return Deductions{}, err
		}
		amount := cappedPercentage(table, gross)
		switch kind {
		case KindSSS:
			out.SSS = amount
		case KindPhilHealth:
			out.PhilHealth = amount
		case KindPagIbig:
			out.PagIbig = amount
		}
	}

	out = clampToGross(out, gross)
	return out, nil
}

// ComputeTax menghitung pajak progresif atas penghasilan kena pajak.
func (e *Engine) ComputeTax(ctx context.Context, companyID string, taxable int64, asOf time.Time) (int64, error) {
	table, err := e.lookup(ctx, companyID, KindTax, asOf)
	if err != nil {
		return 0, err
	}
	tax, err := walkBrackets(table.Brackets, taxable)
	if err != nil {
		return 0, err
	}
	if tax > taxable {
		tax = taxable
	}
	return tax, nil
}

// ComputeBonusTax menghitung pajak bonus/THR: bagian di bawah annual_exemption
// bebas pajak, sisanya lewat tabel progresif yang sama.
func (e *Engine) ComputeBonusTax(ctx context.Context, companyID string, bonus int64, asOf time.Time) (int64, error) {
	table, err := e.lookup(ctx, companyID, KindTax, asOf)
	if err != nil {
		return 0, err
	}

	taxableBonus := bonus - table.AnnualExemption
	if taxableBonus <= 0 {
		return 0, nil
	}

	tax, err := walkBrackets(table.Brackets, taxableBonus)
	if err != nil {
		return 0, err
	}
	if tax > bonus {
		tax = bonus
	}
	return tax, nil
}

func (e *Engine) lookup(ctx context.Context, companyID, kind string, asOf time.Time) (*RateTable, error) {
	table, err := e.repo.FindApplicable(ctx, companyID, kind, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.logger.Warn("no applicable rate table",
				zap.String("company_id", companyID),
				zap.String("kind", kind),
				zap.String("as_of", asOf.Format("2006-01-02")),
			)
			return nil, statutoryerrors.ErrNoApplicableRate
		}
		return nil, err
	}
	return table, nil
}

// walkBrackets mencari bracket yang memuat amount lalu menghitung
// base_amount + (amount - lower_bound) * rate_bp / 10000.
// Bracket diasumsikan terurut lower_bound ASC (repo yang menjamin).
func walkBrackets(brackets []RateBracket, amount int64) (int64, error) {
	if amount < 0 {
		amount = 0
	}
	for _, b := range brackets {
		if amount < b.LowerBound {
			continue
		}
		if b.UpperBound != nil && amount > *b.UpperBound {
			continue
		}
		tax := b.BaseAmount + (amount-b.LowerBound)*b.RateBp/10000
		if tax < 0 {
			tax = 0
		}
		return tax, nil
	}
	return 0, statutoryerrors.ErrNoApplicableRate
}

// cappedPercentage mengklem gaji ke [min_salary_base, max_salary_base]
// sebelum mengalikan rate_bp. max_salary_base 0 berarti tanpa plafon.
func cappedPercentage(table *RateTable, salary int64) int64 {
	base := salary
	if base < table.MinSalaryBase {
		base = table.MinSalaryBase
	}
	if table.MaxSalaryBase > 0 && base > table.MaxSalaryBase {
		base = table.MaxSalaryBase
	}
	amount := base * table.RateBp / 10000
	if amount < 0 {
		amount = 0
	}
	return amount
}

// clampToGross memastikan total kontribusi tidak melebihi gross,
// memangkas dari komponen terakhir lebih dulu.
func clampToGross(d Deductions, gross int64) Deductions {
	if gross < 0 {
		gross = 0
	}
	remaining := gross
	for _, amount := range []*int64{&d.SSS, &d.PhilHealth, &d.PagIbig} {
		if *amount > remaining {
			*amount = remaining
		}
		remaining -= *amount
	}
	return d
}

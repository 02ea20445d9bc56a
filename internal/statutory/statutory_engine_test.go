package statutory_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/statutory"
	statutoryerrors "go-payroll/internal/statutory/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRateTableRepository struct {
	createFn         func(ctx context.Context, t *statutory.RateTable) error
	findApplicableFn func(ctx context.Context, companyID, kind string, asOf time.Time) (*statutory.RateTable, error)
}

func (f *fakeRateTableRepository) WithTx(tx *sql.Tx) statutory.Repository { return f }

func (f *fakeRateTableRepository) Create(ctx context.Context, t *statutory.RateTable) error {
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}

func (f *fakeRateTableRepository) FindByID(ctx context.Context, id string) (*statutory.RateTable, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRateTableRepository) FindAllByCompany(ctx context.Context, companyID string) ([]statutory.RateTable, error) {
	return nil, nil
}

func (f *fakeRateTableRepository) FindApplicable(ctx context.Context, companyID, kind string, asOf time.Time) (*statutory.RateTable, error) {
	if f.findApplicableFn != nil {
		return f.findApplicableFn(ctx, companyID, kind, asOf)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRateTableRepository) Delete(ctx context.Context, companyID, id string) error {
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

// Tabel pajak progresif tiga bracket: 0% sampai 20.000, 15% di atasnya
// sampai 60.000, lalu 25%.
func progressiveTaxTable() *statutory.RateTable {
	return &statutory.RateTable{
		ID:   uuid.New(),
		Kind: statutory.KindTax,
		Brackets: []statutory.RateBracket{
			{LowerBound: 0, UpperBound: int64Ptr(20000), BaseAmount: 0, RateBp: 0},
			{LowerBound: 20001, UpperBound: int64Ptr(60000), BaseAmount: 0, RateBp: 1500},
			{LowerBound: 60001, UpperBound: nil, BaseAmount: 6000, RateBp: 2500},
		},
	}
}

func contributionTable(rateBp, minBase, maxBase int64) *statutory.RateTable {
	return &statutory.RateTable{
		ID:            uuid.New(),
		RateBp:        rateBp,
		MinSalaryBase: minBase,
		MaxSalaryBase: maxBase,
	}
}

func TestEngineComputeTax(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	repo := &fakeRateTableRepository{
		findApplicableFn: func(_ context.Context, _, kind string, _ time.Time) (*statutory.RateTable, error) {
			return progressiveTaxTable(), nil
		},
	}
	engine := statutory.NewEngine(repo)

	t.Run("income inside the exempt bracket pays zero", func(t *testing.T) {
		tax, err := engine.ComputeTax(ctx, companyID, 15000, asOf)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), tax)
	})

	t.Run("marginal rate applies only above the lower bound", func(t *testing.T) {
		tax, err := engine.ComputeTax(ctx, companyID, 40000, asOf)
		assert.NoError(t, err)
		// (40000 - 20001) * 15% = 2999
		assert.Equal(t, int64(2999), tax)
	})

	t.Run("top bracket uses base amount plus marginal rate", func(t *testing.T) {
		tax, err := engine.ComputeTax(ctx, companyID, 100000, asOf)
		assert.NoError(t, err)
		// 6000 + (100000 - 60001) * 25% = 6000 + 9999
		assert.Equal(t, int64(15999), tax)
	})

	t.Run("tax is monotonic in income", func(t *testing.T) {
		var prev int64 = -1
		for _, income := range []int64{0, 10000, 20000, 20001, 35000, 60000, 60001, 90000, 200000} {
			tax, err := engine.ComputeTax(ctx, companyID, income, asOf)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, tax, prev)
			assert.LessOrEqual(t, tax, income)
			prev = tax
		}
	})

	t.Run("missing table fails loudly", func(t *testing.T) {
		missing := statutory.NewEngine(&fakeRateTableRepository{})
		_, err := missing.ComputeTax(ctx, companyID, 40000, asOf)
		assert.ErrorIs(t, err, statutoryerrors.ErrNoApplicableRate)
	})
}

func TestEngineComputeContributions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	tables := map[string]*statutory.RateTable{
		statutory.KindSSS:        contributionTable(450, 0, 30000),  // 4.5% capped at 30k
		statutory.KindPhilHealth: contributionTable(250, 10000, 0),  // 2.5% floor 10k, no cap
		statutory.KindPagIbig:    contributionTable(100, 0, 10000),  // 1% capped at 10k
	}
	repo := &fakeRateTableRepository{
		findApplicableFn: func(_ context.Context, _, kind string, _ time.Time) (*statutory.RateTable, error) {
			if table, ok := tables[kind]; ok {
				return table, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	engine := statutory.NewEngine(repo)

	t.Run("percentages apply to the clamped base", func(t *testing.T) {
		d, err := engine.ComputeContributions(ctx, companyID, 50000, asOf)
		assert.NoError(t, err)
		assert.Equal(t, int64(1350), d.SSS)        // 4.5% dari cap 30000
		assert.Equal(t, int64(1250), d.PhilHealth) // 2.5% dari 50000
		assert.Equal(t, int64(100), d.PagIbig)     // 1% dari cap 10000
		assert.Equal(t, int64(2700), d.Total())
	})

	t.Run("minimum base applies to low salaries", func(t *testing.T) {
		d, err := engine.ComputeContributions(ctx, companyID, 4000, asOf)
		assert.NoError(t, err)
		// PhilHealth dihitung dari floor 10000, bukan 4000.
		assert.Equal(t, int64(250), d.PhilHealth)
	})

	t.Run("total contributions never exceed gross", func(t *testing.T) {
		d, err := engine.ComputeContributions(ctx, companyID, 300, asOf)
		assert.NoError(t, err)
		assert.LessOrEqual(t, d.Total(), int64(300))
	})

	t.Run("one missing kind fails the whole computation", func(t *testing.T) {
		partial := &fakeRateTableRepository{
			findApplicableFn: func(_ context.Context, _, kind string, _ time.Time) (*statutory.RateTable, error) {
				if kind == statutory.KindSSS {
					return tables[statutory.KindSSS], nil
				}
				return nil, gorm.ErrRecordNotFound
			},
		}
		_, err := statutory.NewEngine(partial).ComputeContributions(ctx, companyID, 50000, asOf)
		assert.ErrorIs(t, err, statutoryerrors.ErrNoApplicableRate)
	})
}

func TestEngineComputeBonusTax(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	asOf := time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC)

	table := progressiveTaxTable()
	table.AnnualExemption = 90000
	repo := &fakeRateTableRepository{
		findApplicableFn: func(_ context.Context, _, _ string, _ time.Time) (*statutory.RateTable, error) {
			return table, nil
		},
	}
	engine := statutory.NewEngine(repo)

	t.Run("bonus under the exemption is tax free", func(t *testing.T) {
		tax, err := engine.ComputeBonusTax(ctx, companyID, 80000, asOf)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), tax)
	})

	t.Run("only the excess over the exemption is taxed", func(t *testing.T) {
		tax, err := engine.ComputeBonusTax(ctx, companyID, 130000, asOf)
		assert.NoError(t, err)
		// Kena pajak 40000: (40000 - 20001) * 15% = 2999
		assert.Equal(t, int64(2999), tax)
	})
}

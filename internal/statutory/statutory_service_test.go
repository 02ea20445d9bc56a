package statutory_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/statutory"
	statutoryerrors "go-payroll/internal/statutory/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatutoryService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	validTaxBrackets := []statutory.CreateRateBracketRequest{
		{LowerBound: 0, UpperBound: int64Ptr(20000), RateBp: 0},
		{LowerBound: 20001, UpperBound: int64Ptr(60000), RateBp: 1500},
		{LowerBound: 60001, UpperBound: nil, BaseAmount: 6000, RateBp: 2500},
	}

	t.Run("tax table with contiguous brackets is accepted", func(t *testing.T) {
		var created *statutory.RateTable
		repo := &fakeRateTableRepository{
			createFn: func(_ context.Context, row *statutory.RateTable) error {
				created = row
				return nil
			},
		}
		svc := statutory.NewService(db, repo, statutory.NewEngine(repo))

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Create(ctx, companyID, statutory.CreateRateTableRequest{
			Kind:          statutory.KindTax,
			EffectiveDate: "2026-01-01",
			Brackets:      validTaxBrackets,
		})
		assert.NoError(t, err)
		assert.Equal(t, statutory.KindTax, resp.Kind)
		assert.Len(t, resp.Brackets, 3)
		assert.NotNil(t, created)
		assert.Equal(t, companyID, created.CompanyID.String())
	})

	t.Run("global table has no company", func(t *testing.T) {
		var created *statutory.RateTable
		repo := &fakeRateTableRepository{
			createFn: func(_ context.Context, row *statutory.RateTable) error {
				created = row
				return nil
			},
		}
		svc := statutory.NewService(db, repo, statutory.NewEngine(repo))

		mock.ExpectBegin()
		mock.ExpectCommit()

		_, err := svc.Create(ctx, companyID, statutory.CreateRateTableRequest{
			Kind:          statutory.KindSSS,
			EffectiveDate: "2026-01-01",
			Global:        true,
			RateBp:        450,
			MaxSalaryBase: 30000,
		})
		assert.NoError(t, err)
		assert.Nil(t, created.CompanyID)
	})

	t.Run("tax brackets must start at zero", func(t *testing.T) {
		svc := statutory.NewService(db, &fakeRateTableRepository{}, nil)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(ctx, companyID, statutory.CreateRateTableRequest{
			Kind:          statutory.KindTax,
			EffectiveDate: "2026-01-01",
			Brackets: []statutory.CreateRateBracketRequest{
				{LowerBound: 1000, UpperBound: nil},
			},
		})
		assert.ErrorIs(t, err, statutoryerrors.ErrInvalidBracket)
	})

	t.Run("gap between brackets is rejected", func(t *testing.T) {
		svc := statutory.NewService(db, &fakeRateTableRepository{}, nil)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(ctx, companyID, statutory.CreateRateTableRequest{
			Kind:          statutory.KindTax,
			EffectiveDate: "2026-01-01",
			Brackets: []statutory.CreateRateBracketRequest{
				{LowerBound: 0, UpperBound: int64Ptr(20000)},
				{LowerBound: 25000, UpperBound: nil},
			},
		})
		assert.ErrorIs(t, err, statutoryerrors.ErrInvalidBracket)
	})

	t.Run("top bracket must be open ended", func(t *testing.T) {
		svc := statutory.NewService(db, &fakeRateTableRepository{}, nil)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(ctx, companyID, statutory.CreateRateTableRequest{
			Kind:          statutory.KindTax,
			EffectiveDate: "2026-01-01",
			Brackets: []statutory.CreateRateBracketRequest{
				{LowerBound: 0, UpperBound: int64Ptr(20000)},
				{LowerBound: 20001, UpperBound: int64Ptr(60000)},
			},
		})
		assert.ErrorIs(t, err, statutoryerrors.ErrInvalidBracket)
	})

	t.Run("contribution tables carry no brackets", func(t *testing.T) {
		svc := statutory.NewService(db, &fakeRateTableRepository{}, nil)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(ctx, companyID, statutory.CreateRateTableRequest{
			Kind:          statutory.KindPagIbig,
			EffectiveDate: "2026-01-01",
			RateBp:        100,
			Brackets:      validTaxBrackets,
		})
		assert.ErrorIs(t, err, statutoryerrors.ErrInvalidBracket)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		svc := statutory.NewService(db, &fakeRateTableRepository{}, nil)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(ctx, companyID, statutory.CreateRateTableRequest{
			Kind:          "VAT",
			EffectiveDate: "2026-01-01",
		})
		assert.ErrorIs(t, err, statutoryerrors.ErrInvalidKind)
	})
}

func TestStatutoryService_PreviewDeductions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	tables := map[string]*statutory.RateTable{
		statutory.KindTax:        progressiveTaxTable(),
		statutory.KindSSS:        contributionTable(450, 0, 30000),
		statutory.KindPhilHealth: contributionTable(250, 0, 0),
		statutory.KindPagIbig:    contributionTable(100, 0, 10000),
	}
	repo := &fakeRateTableRepository{
		findApplicableFn: func(_ context.Context, _, kind string, _ time.Time) (*statutory.RateTable, error) {
			if table, ok := tables[kind]; ok {
				return table, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := statutory.NewService(db, repo, statutory.NewEngine(repo))

	t.Run("preview mirrors the payroll math", func(t *testing.T) {
		resp, err := svc.PreviewDeductions(ctx, companyID, statutory.PreviewDeductionsRequest{
			Gross: 50000,
			AsOf:  "2026-03-31",
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(1350), resp.SSS)
		assert.Equal(t, int64(1250), resp.PhilHealth)
		assert.Equal(t, int64(100), resp.PagIbig)
		// Taxable 47300: (47300 - 20001) * 15% = 4094
		assert.Equal(t, int64(47300), resp.TaxableIncome)
		assert.Equal(t, int64(4094), resp.Tax)
		assert.Equal(t, resp.SSS+resp.PhilHealth+resp.PagIbig+resp.Tax, resp.TotalDeductions)
	})

	t.Run("missing tax table surfaces the lookup failure", func(t *testing.T) {
		partial := &fakeRateTableRepository{
			findApplicableFn: func(_ context.Context, _, kind string, _ time.Time) (*statutory.RateTable, error) {
				if kind == statutory.KindTax {
					return nil, gorm.ErrRecordNotFound
				}
				return tables[kind], nil
			},
		}
		brokenSvc := statutory.NewService(db, partial, statutory.NewEngine(partial))

		_, err := brokenSvc.PreviewDeductions(ctx, companyID, statutory.PreviewDeductionsRequest{
			Gross: 50000,
			AsOf:  "2026-03-31",
		})
		assert.ErrorIs(t, err, statutoryerrors.ErrNoApplicableRate)
	})
}

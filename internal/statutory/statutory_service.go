package statutory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	statutoryerrors "go-payroll/internal/statutory/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=statutory_service.go -destination=mock/statutory_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateRateTableRequest) (RateTableResponse, error)
	GetAll(ctx context.Context, companyID string) ([]RateTableResponse, error)
	GetByID(ctx context.Context, id string) (RateTableResponse, error)
	PreviewDeductions(ctx context.Context, companyID string, req PreviewDeductionsRequest) (PreviewDeductionsResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	engine *Engine
}

func NewService(db *sql.DB, repo Repository, engine *Engine) Service {
	return &service{db: db, repo: repo, engine: engine}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateRateTableRequest,
) (RateTableResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RateTableResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RateTableResponse{}, statutoryerrors.ErrInvalidCompanyID
	}
	if !IsValidKind(req.Kind) {
		return RateTableResponse{}, statutoryerrors.ErrInvalidKind
	}
	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return RateTableResponse{}, statutoryerrors.ErrInvalidDateFormat
	}
	if err := validateBrackets(req.Kind, req.Brackets); err != nil {
		return RateTableResponse{}, err
	}

	row := &RateTable{
		ID:              uuid.New(),
		Kind:            req.Kind,
		EffectiveDate:   effectiveDate,
		RateBp:          req.RateBp,
		MinSalaryBase:   req.MinSalaryBase,
		MaxSalaryBase:   req.MaxSalaryBase,
		AnnualExemption: req.AnnualExemption,
	}
	if !req.Global {
		row.CompanyID = &companyUUID
	}
	for _, b := range req.Brackets {
		row.Brackets = append(row.Brackets, RateBracket{
			ID:          uuid.New(),
			RateTableID: row.ID,
			LowerBound:  b.LowerBound,
			UpperBound:  b.UpperBound,
			BaseAmount:  b.BaseAmount,
			RateBp:      b.RateBp,
		})
	}

	if err := qtx.Create(ctx, row); err != nil {
		return RateTableResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RateTableResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]RateTableResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (RateTableResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RateTableResponse{}, statutoryerrors.ErrNoApplicableRate
		}
		return RateTableResponse{}, err
	}
	return mapToResponse(*row), nil
}

// PreviewDeductions menghitung potongan tanpa menyentuh payroll, dipakai
// HR untuk memeriksa tabel sebelum run.
func (s *service) PreviewDeductions(
	ctx context.Context,
	companyID string,
	req PreviewDeductionsRequest,
) (PreviewDeductionsResponse, error) {
	asOf, err := time.Parse("2006-01-02", req.AsOf)
	if err != nil {
		return PreviewDeductionsResponse{}, statutoryerrors.ErrInvalidDateFormat
	}

	contrib, err := s.engine.ComputeContributions(ctx, companyID, req.Gross, asOf)
	if err != nil {
		return PreviewDeductionsResponse{}, err
	}

	taxable := req.Gross - contrib.Total()
	if taxable < 0 {
		taxable = 0
	}
	tax, err := s.engine.ComputeTax(ctx, companyID, taxable, asOf)
	if err != nil {
		return PreviewDeductionsResponse{}, err
	}

	return PreviewDeductionsResponse{
		Gross:           req.Gross,
		SSS:             contrib.SSS,
		PhilHealth:      contrib.PhilHealth,
		PagIbig:         contrib.PagIbig,
		TaxableIncome:   taxable,
		Tax:             tax,
		TotalDeductions: contrib.Total() + tax,
	}, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}

	return tx.Commit()
}

// validateBrackets memastikan tabel TAX punya bracket terurut, saling
// menyambung, dan bracket teratas terbuka (upper_bound null).
func validateBrackets(kind string, brackets []CreateRateBracketRequest) error {
	if kind != KindTax {
		if len(brackets) > 0 {
			return statutoryerrors.ErrInvalidBracket
		}
		return nil
	}
	if len(brackets) == 0 {
		return statutoryerrors.ErrInvalidBracket
	}
	if brackets[0].LowerBound != 0 {
		return statutoryerrors.ErrInvalidBracket
	}
	for i, b := range brackets {
		last := i == len(brackets)-1
		if last {
			if b.UpperBound != nil {
				return statutoryerrors.ErrInvalidBracket
			}
			continue
		}
		if b.UpperBound == nil || *b.UpperBound < b.LowerBound {
			return statutoryerrors.ErrInvalidBracket
		}
		if brackets[i+1].LowerBound != *b.UpperBound+1 {
			return statutoryerrors.ErrInvalidBracket
		}
	}
	return nil
}

func mapToResponse(t RateTable) RateTableResponse {
	resp := RateTableResponse{
		ID:              t.ID.String(),
		Kind:            t.Kind,
		EffectiveDate:   t.EffectiveDate.Format("2006-01-02"),
		RateBp:          t.RateBp,
		MinSalaryBase:   t.MinSalaryBase,
		MaxSalaryBase:   t.MaxSalaryBase,
		AnnualExemption: t.AnnualExemption,
	}
	if t.CompanyID != nil {
		resp.CompanyID = t.CompanyID.String()
	}
	for _, b := range t.Brackets {
		resp.Brackets = append(resp.Brackets, RateBracketResponse{
			ID:         b.ID.String(),
			LowerBound: b.LowerBound,
			UpperBound: b.UpperBound,
			BaseAmount: b.BaseAmount,
			RateBp:     b.RateBp,
		})
	}
	return resp
}

func mapToListResponse(rows []RateTable) []RateTableResponse {
	resp := make([]RateTableResponse, len(rows))
	for i, t := range rows {
		resp[i] = mapToResponse(t)
	}
	return resp
}

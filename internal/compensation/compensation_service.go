package compensation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	compensationerrors "go-payroll/internal/compensation/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_service.go -destination=mock/compensation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateCompensationRequest) (CompensationResponse, error)
	GetAll(ctx context.Context, companyID string) ([]CompensationResponse, error)
	GetByID(ctx context.Context, companyID, id string) (CompensationResponse, error)
	GetCurrent(ctx context.Context, companyID, employeeID string, asOf time.Time) (CompensationResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

// Create selalu menambah baris baru; riwayat kompensasi tidak pernah ditimpa.
func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateCompensationRequest,
) (CompensationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompensationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return CompensationResponse{}, compensationerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return CompensationResponse{}, compensationerrors.ErrInvalidEmployeeID
	}
	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return CompensationResponse{}, compensationerrors.ErrInvalidDateFormat
	}
	if req.BaseSalary < 0 {
		return CompensationResponse{}, compensationerrors.ErrInvalidSalary
	}

	row := &Compensation{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    employeeUUID,
		BaseSalary:    req.BaseSalary,
		EffectiveDate: effectiveDate,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return CompensationResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return CompensationResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]CompensationResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (CompensationResponse, error) {
	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompensationResponse{}, compensationerrors.ErrCompensationNotFound
		}
		return CompensationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) GetCurrent(ctx context.Context, companyID, employeeID string, asOf time.Time) (CompensationResponse, error) {
	row, err := s.repo.FindCurrent(ctx, companyID, employeeID, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompensationResponse{}, compensationerrors.ErrNoCompensation
		}
		return CompensationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

func mapToResponse(c Compensation) CompensationResponse {
	resp := CompensationResponse{
		ID:            c.ID.String(),
		CompanyID:     c.CompanyID.String(),
		EmployeeID:    c.EmployeeID.String(),
		BaseSalary:    c.BaseSalary,
		EffectiveDate: c.EffectiveDate.Format("2006-01-02"),
	}
	if c.Employee != nil {
		resp.EmployeeName = c.Employee.FullName
	}
	return resp
}

func mapToListResponse(rows []Compensation) []CompensationResponse {
	resp := make([]CompensationResponse, len(rows))
	for i, c := range rows {
		resp[i] = mapToResponse(c)
	}
	return resp
}

package payrollperiod

import (
	"context"
	"database/sql"
	"errors"
	"time"

	payrollperioderrors "go-payroll/internal/payrollperiod/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payrollperiod_service.go -destination=mock/payrollperiod_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreatePayrollPeriodRequest) (PayrollPeriodResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PayrollPeriodResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollPeriodResponse, error)
	UpdateStatus(ctx context.Context, companyID, id string, req UpdatePayrollPeriodStatusRequest) (PayrollPeriodResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreatePayrollPeriodRequest,
) (PayrollPeriodResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollPeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayrollPeriodResponse{}, payrollperioderrors.ErrInvalidCompanyID
	}
	if !IsValidPeriodType(req.Type) {
		return PayrollPeriodResponse{}, payrollperioderrors.ErrInvalidPeriodType
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return PayrollPeriodResponse{}, payrollperioderrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return PayrollPeriodResponse{}, payrollperioderrors.ErrInvalidDateFormat
	}
	payDate, err := time.Parse("2006-01-02", req.PayDate)
	if err != nil {
		return PayrollPeriodResponse{}, payrollperioderrors.ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return PayrollPeriodResponse{}, payrollperioderrors.ErrInvalidDateRange
	}
	if payDate.Before(endDate) {
		return PayrollPeriodResponse{}, payrollperioderrors.ErrInvalidPayDate
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, startDate, endDate)
	if err != nil {
		return PayrollPeriodResponse{}, err
	}
	if overlap {
		return PayrollPeriodResponse{}, payrollperioderrors.ErrOverlappingPeriod
	}

	row := &PayrollPeriod{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      req.Name,
		Type:      req.Type,
		StartDate: startDate,
		EndDate:   endDate,
		PayDate:   payDate,
		Status:    StatusPending,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return PayrollPeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollPeriodResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]PayrollPeriodResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollPeriodResponse, error) {
	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollPeriodResponse{}, payrollperioderrors.ErrPeriodNotFound
		}
		return PayrollPeriodResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) UpdateStatus(
	ctx context.Context,
	companyID, id string,
	req UpdatePayrollPeriodStatusRequest,
) (PayrollPeriodResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollPeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollPeriodResponse{}, payrollperioderrors.ErrPeriodNotFound
		}
		return PayrollPeriodResponse{}, err
	}

	if !isAllowedStatusTransition(row.Status, req.Status) {
		return PayrollPeriodResponse{}, payrollperioderrors.ErrInvalidStatusTransition
	}

	if err := qtx.UpdateStatus(ctx, companyID, id, req.Status); err != nil {
		return PayrollPeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollPeriodResponse{}, err
	}

	row.Status = req.Status
	return mapToResponse(*row), nil
}

func isAllowedStatusTransition(current, target string) bool {
	switch current {
	case StatusPending:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusCompleted || target == StatusCancelled
	default:
		return false
	}
}

func mapToResponse(p PayrollPeriod) PayrollPeriodResponse {
	return PayrollPeriodResponse{
		ID:        p.ID.String(),
		CompanyID: p.CompanyID.String(),
		Name:      p.Name,
		Type:      p.Type,
		StartDate: p.StartDate.Format("2006-01-02"),
		EndDate:   p.EndDate.Format("2006-01-02"),
		PayDate:   p.PayDate.Format("2006-01-02"),
		Status:    p.Status,
	}
}

func mapToListResponse(rows []PayrollPeriod) []PayrollPeriodResponse {
	resp := make([]PayrollPeriodResponse, len(rows))
	for i, p := range rows {
		resp[i] = mapToResponse(p)
	}
	return resp
}

package timeentry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	timeentryerrors "go-payroll/internal/timeentry/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=timeentry_service.go -destination=mock/timeentry_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (TimeEntryResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (TimeEntryResponse, error)
	StartBreak(ctx context.Context, companyID, employeeID string, req StartBreakRequest) (BreakResponse, error)
	EndBreak(ctx context.Context, companyID, employeeID string) (BreakResponse, error)
	GetAll(ctx context.Context, companyID string) ([]TimeEntryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("timeentry.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeentry.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (TimeEntryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	if _, err := uuid.Parse(companyID); err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidEmployeeID
	}

	existing, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return TimeEntryResponse{}, err
	}
	if err == nil && existing != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrAlreadyClockedIn
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	row := &TimeEntry{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: uuid.MustParse(employeeID),
		WorkDate:   today,
		ClockIn:    now,
		Status:     StatusOpen,
		Source:     source,
		Notes:      req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return TimeEntryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	s.logger.Info("clock in recorded",
		zap.String("time_entry_id", row.ID.String()),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*row, nil), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (TimeEntryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	// Lookup berdasar status, bukan work_date, supaya shift yang lewat
	// tengah malam tetap bisa ditutup keesokan harinya.
	row, err := qtx.FindOpenByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			closed, cerr := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
			if cerr == nil && closed != nil && closed.Status == StatusClosed {
				return TimeEntryResponse{}, timeentryerrors.ErrAlreadyClockedOut
			}
			return TimeEntryResponse{}, timeentryerrors.ErrClockInNotFound
		}
		return TimeEntryResponse{}, err
	}

	// Break yang masih terbuka ditutup bersamaan dengan clock out
	openBreak, err := qtx.FindOpenBreak(ctx, companyID, row.ID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return TimeEntryResponse{}, err
	}
	if err == nil && openBreak != nil {
		openBreak.BreakEnd = &now
		if err := qtx.UpdateBreak(ctx, openBreak); err != nil {
			return TimeEntryResponse{}, err
		}
	}

	row.ClockOut = &now
	row.Status = StatusClosed
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return TimeEntryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	s.logger.Info("clock out recorded",
		zap.String("time_entry_id", row.ID.String()),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*row, nil), nil
}

func (s *service) StartBreak(ctx context.Context, companyID, employeeID string, req StartBreakRequest) (BreakResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BreakResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	entry, err := qtx.FindOpenByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			closed, cerr := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
			if cerr == nil && closed != nil && closed.Status == StatusClosed {
				return BreakResponse{}, timeentryerrors.ErrEntryAlreadyClosed
			}
			return BreakResponse{}, timeentryerrors.ErrClockInNotFound
		}
		return BreakResponse{}, err
	}

	existing, err := qtx.FindOpenBreak(ctx, companyID, entry.ID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return BreakResponse{}, err
	}
	if err == nil && existing != nil {
		return BreakResponse{}, timeentryerrors.ErrBreakAlreadyOpen
	}

	b := &TimeEntryBreak{
		ID:          uuid.New(),
		TimeEntryID: entry.ID,
		CompanyID:   entry.CompanyID,
		BreakStart:  now,
		Paid:        req.Paid,
	}
	if err := qtx.CreateBreak(ctx, b); err != nil {
		return BreakResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return BreakResponse{}, err
	}

	return mapBreakToResponse(*b), nil
}

func (s *service) EndBreak(ctx context.Context, companyID, employeeID string) (BreakResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BreakResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()

	entry, err := qtx.FindOpenByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BreakResponse{}, timeentryerrors.ErrClockInNotFound
		}
		return BreakResponse{}, err
	}

	b, err := qtx.FindOpenBreak(ctx, companyID, entry.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BreakResponse{}, timeentryerrors.ErrNoOpenBreak
		}
		return BreakResponse{}, err
	}

	b.BreakEnd = &now
	if err := qtx.UpdateBreak(ctx, b); err != nil {
		return BreakResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return BreakResponse{}, err
	}

	return mapBreakToResponse(*b), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]TimeEntryResponse, error) {
	rows, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	res := make([]TimeEntryResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r, r.Breaks)
	}
	return res, nil
}

func mapToResponse(e TimeEntry, breaks []TimeEntryBreak) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:         e.ID.String(),
		CompanyID:  e.CompanyID.String(),
		EmployeeID: e.EmployeeID.String(),
		WorkDate:   e.WorkDate.Format("2006-01-02"),
		ClockIn:    e.ClockIn.Format(time.RFC3339),
		Status:     e.Status,
		Source:     e.Source,
		Notes:      e.Notes,
	}
	if e.ClockOut != nil {
		v := e.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	for _, b := range breaks {
		resp.Breaks = append(resp.Breaks, mapBreakToResponse(b))
	}
	return resp
}

func mapBreakToResponse(b TimeEntryBreak) BreakResponse {
	resp := BreakResponse{
		ID:          b.ID.String(),
		TimeEntryID: b.TimeEntryID.String(),
		BreakStart:  b.BreakStart.Format(time.RFC3339),
		Paid:        b.Paid,
	}
	if b.BreakEnd != nil {
		v := b.BreakEnd.Format(time.RFC3339)
		resp.BreakEnd = &v
	}
	return resp
}

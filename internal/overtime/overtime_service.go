package overtime

import (
	"context"
	"database/sql"
	"errors"
	"time"

	overtimeerrors "go-payroll/internal/overtime/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

//go:generate mockgen -source=overtime_service.go -destination=mock/overtime_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateOvertimeRequest) (OvertimeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]OvertimeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (OvertimeResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string, req ApproveOvertimeRequest) (OvertimeResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (OvertimeResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (OvertimeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("overtime.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("overtime.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateOvertimeRequest) (OvertimeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidCompanyID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidEmployeeID
	}
	workDate, err := parseDate(req.WorkDate)
	if err != nil {
		return OvertimeResponse{}, err
	}
	if req.RequestedMinutes <= 0 {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidMinutes
	}

	o := &OvertimeRequest{
		ID:               uuid.New(),
		CompanyID:        companyUUID,
		EmployeeID:       employeeUUID,
		WorkDate:         workDate,
		RequestedMinutes: req.RequestedMinutes,
		Reason:           req.Reason,
		Status:           StatusPending,
		CreatedBy:        createdByUUID,
	}

	if err := qtx.Create(ctx, o); err != nil {
		s.logger.Error("create overtime persist failed", zap.Error(err))
		return OvertimeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return OvertimeResponse{}, err
	}

	s.logger.Info("overtime request created",
		zap.String("overtime_id", o.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int64("requested_minutes", req.RequestedMinutes),
	)
	return mapToResponse(*o), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]OvertimeResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (OvertimeResponse, error) {
	o, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OvertimeResponse{}, overtimeerrors.ErrOvertimeNotFound
		}
		return OvertimeResponse{}, err
	}
	return mapToResponse(*o), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string, req ApproveOvertimeRequest) (OvertimeResponse, error) {
	return s.transitionStatus(ctx, companyID, actorID, id, StatusApproved, req.ApprovedMinutes, nil)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (OvertimeResponse, error) {
	return s.transitionStatus(ctx, companyID, actorID, id, StatusRejected, nil, &rejectionReason)
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (OvertimeResponse, error) {
	return s.transitionStatus(ctx, companyID, actorID, id, StatusCancelled, nil, nil)
}

// Hanya PENDING yang boleh berpindah status; status lain bersifat terminal.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	if currentStatus != StatusPending {
		return false
	}
	switch targetStatus {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s *service) transitionStatus(ctx context.Context, companyID, actorID, id, targetStatus string, approvedMinutes *int64, rejectionReason *string) (OvertimeResponse, error) {
	s.logger.Debug("transition overtime status requested",
		zap.String("overtime_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition overtime status begin tx failed", zap.Error(err))
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err = uuid.Parse(companyID); err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidActorID
	}

	o, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OvertimeResponse{}, overtimeerrors.ErrOvertimeNotFound
		}
		return OvertimeResponse{}, err
	}
	if !isAllowedStatusTransition(o.Status, targetStatus) {
		s.logger.Warn("transition overtime status invalid",
			zap.String("overtime_id", id),
			zap.String("from_status", o.Status),
			zap.String("to_status", targetStatus),
		)
		return OvertimeResponse{}, overtimeerrors.ErrInvalidStatusTransition
	}

	o.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		minutes := o.RequestedMinutes
		if approvedMinutes != nil {
			minutes = *approvedMinutes
		}
		if minutes <= 0 || minutes > o.RequestedMinutes {
			return OvertimeResponse{}, overtimeerrors.ErrApprovedExceedsRequested
		}
		o.ApprovedMinutes = &minutes
		o.ApprovedBy = &actorUUID
		now := time.Now().UTC()
		o.ApprovedAt = &now
		o.RejectionReason = nil
	case StatusRejected:
		if rejectionReason == nil || *rejectionReason == "" {
			return OvertimeResponse{}, overtimeerrors.ErrRejectionReasonRequired
		}
		o.ApprovedMinutes = nil
		o.ApprovedBy = nil
		o.ApprovedAt = nil
		o.RejectionReason = rejectionReason
	default:
		o.ApprovedMinutes = nil
		o.ApprovedBy = nil
		o.ApprovedAt = nil
		o.RejectionReason = nil
	}

	if err := qtx.Update(ctx, o); err != nil {
		s.logger.Error("transition overtime status persist failed",
			zap.String("overtime_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return OvertimeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("transition overtime status commit failed",
			zap.String("overtime_id", id),
			zap.Error(err),
		)
		return OvertimeResponse{}, err
	}
	s.logger.Info("transition overtime status success",
		zap.String("overtime_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*o), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, overtimeerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(o OvertimeRequest) OvertimeResponse {
	resp := OvertimeResponse{
		ID:               o.ID.String(),
		CompanyID:        o.CompanyID.String(),
		EmployeeID:       o.EmployeeID.String(),
		WorkDate:         o.WorkDate.Format("2006-01-02"),
		RequestedMinutes: o.RequestedMinutes,
		ApprovedMinutes:  o.ApprovedMinutes,
		Reason:           o.Reason,
		Status:           o.Status,
		CreatedBy:        o.CreatedBy.String(),
		RejectionReason:  o.RejectionReason,
	}
	if o.Employee != nil {
		resp.EmployeeName = o.Employee.FullName
	}
	if o.ApprovedBy != nil {
		v := o.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if o.ApprovedAt != nil {
		v := o.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(rows []OvertimeRequest) []OvertimeResponse {
	resp := make([]OvertimeResponse, len(rows))
	for i, o := range rows {
		resp[i] = mapToResponse(o)
	}
	return resp
}

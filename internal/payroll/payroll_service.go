package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	payrollperioderrors "go-payroll/internal/payrollperiod/errors"
	"go-payroll/internal/shared/contextutil"

	"go-payroll/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusDraft    = "DRAFT"
	StatusComputed = "COMPUTED"
	StatusApproved = "APPROVED"
	StatusReleased = "RELEASED"
	StatusVoided   = "VOIDED"
)

const (
	ActionGenerate = "GENERATE"
	ActionCompute  = "COMPUTE"
	ActionApprove  = "APPROVE"
	ActionRelease  = "RELEASE"
	ActionVoid     = "VOID"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, companyID, actorID string, req GeneratePayrollRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	GetLogs(ctx context.Context, companyID, id string) ([]PayrollLogResponse, error)
	Compute(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	Release(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	Void(ctx context.Context, companyID, actorID, id string, req VoidPayrollRequest) (PayrollResponse, error)
	GeneratePayslip(ctx context.Context, companyID, id string) (PayrollResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outbox     kafka.OutboxRepository
	periods    PeriodGateway
	assembler  *assembler
	payslipDir string
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	periods PeriodGateway,
	timesheets TimesheetGateway,
	entries EntryGateway,
	compensations CompensationGateway,
	statutoryEngine StatutoryGateway,
	payslipDir string,
) Service {
	return &service{
		db:      db,
		repo:    repo,
		outbox:  outbox,
		periods: periods,
		assembler: &assembler{
			timesheets:    timesheets,
			entries:       entries,
			compensations: compensations,
			statutory:     statutoryEngine,
		},
		payslipDir: payslipDir,
		logger:     zap.L().Named("payroll.service"),
	}
}

// Generate bersifat idempoten per (employee, period): payroll yang sudah ada
// dikembalikan apa adanya, hitung ulang hanya lewat Compute pada DRAFT.
func (s *service) Generate(
	ctx context.Context,
	companyID, actorID string,
	req GeneratePayrollRequest,
) (PayrollResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	periodUUID, err := uuid.Parse(req.PeriodID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidPeriodID
	}

	existing, err := s.repo.FindByEmployeeAndPeriod(ctx, companyID, req.EmployeeID, req.PeriodID)
	if err == nil {
		return mapToResponse(*existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PayrollResponse{}, err
	}

	period, err := s.periods.FindByIDAndCompany(ctx, companyID, req.PeriodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollperioderrors.ErrPeriodNotFound
		}
		return PayrollResponse{}, err
	}

	result, err := s.assembler.assemble(ctx, companyID, req.EmployeeID, period)
	if err != nil {
		return PayrollResponse{}, err
	}

	payroll := &Payroll{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		EmployeeID:      employeeUUID,
		PeriodID:        periodUUID,
		GrossPay:        result.GrossPay,
		TaxableIncome:   result.TaxableIncome,
		TotalDeductions: result.TotalDeductions,
		NetPay:          result.NetPay,
		Status:          StatusDraft,
		CreatedBy:       actorUUID,
	}
	attachIDs(payroll.ID, companyUUID, &result)
	payroll.Earnings = result.Earnings
	payroll.Deductions = result.Deductions

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, payroll); err != nil {
		return PayrollResponse{}, err
	}
	if err := qtx.CreateLog(ctx, &PayrollLog{
		ID:             uuid.New(),
		PayrollID:      payroll.ID,
		CompanyID:      companyUUID,
		Action:         ActionGenerate,
		PreviousStatus: StatusDraft,
		NewStatus:      StatusDraft,
		ActorID:        actorUUID,
	}); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
	filter GetPayrollsFilterRequest,
) ([]PayrollResponse, error) {
	payrolls, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	filtered := make([]Payroll, 0, len(payrolls))
	for _, p := range payrolls {
		if filter.EmployeeID != "" && p.EmployeeID.String() != filter.EmployeeID {
			continue
		}
		if filter.PeriodID != "" && p.PeriodID.String() != filter.PeriodID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		filtered = append(filtered, p)
	}

	return mapToListResponse(filtered), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	return mapToResponse(*payroll), nil
}

func (s *service) GetLogs(ctx context.Context, companyID, id string) ([]PayrollLogResponse, error) {
	logs, err := s.repo.ListLogs(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	resp := make([]PayrollLogResponse, len(logs))
	for i, l := range logs {
		resp[i] = PayrollLogResponse{
			Action:         l.Action,
			PreviousStatus: l.PreviousStatus,
			NewStatus:      l.NewStatus,
			ActorID:        l.ActorID.String(),
			Reason:         l.Reason,
			CreatedAt:      l.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

// Compute menghitung ulang payroll DRAFT dan memindahkannya ke COMPUTED.
func (s *service) Compute(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusComputed, ActionCompute, nil,
		func(ctx context.Context, qtx Repository, payroll *Payroll) error {
			period, err := s.periods.FindByIDAndCompany(ctx, companyID, payroll.PeriodID.String())
			if err != nil {
				return err
			}

			result, err := s.assembler.assemble(ctx, companyID, payroll.EmployeeID.String(), period)
			if err != nil {
				return err
			}
			attachIDs(payroll.ID, payroll.CompanyID, &result)

			if err := qtx.ReplaceComponents(ctx, payroll, result.Earnings, result.Deductions); err != nil {
				return err
			}

			payroll.GrossPay = result.GrossPay
			payroll.TaxableIncome = result.TaxableIncome
			payroll.TotalDeductions = result.TotalDeductions
			payroll.NetPay = result.NetPay
			payroll.Earnings = result.Earnings
			payroll.Deductions = result.Deductions
			return nil
		})
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusApproved, ActionApprove, nil,
		func(ctx context.Context, qtx Repository, payroll *Payroll) error {
			actorUUID := uuid.MustParse(actorID)
			now := time.Now().UTC()
			payroll.ApprovedBy = &actorUUID
			payroll.ApprovedAt = &now
			return nil
		})
}

// Release menandai payroll siap dibayar dan menitipkan event payslip ke
// outbox di transaksi yang sama.
func (s *service) Release(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusReleased, ActionRelease, nil,
		func(ctx context.Context, qtx Repository, payroll *Payroll) error {
			actorUUID := uuid.MustParse(actorID)
			now := time.Now().UTC()
			payroll.ReleasedBy = &actorUUID
			payroll.ReleasedAt = &now
			return nil
		})
}

// Void menolak request tanpa reason sebelum menyentuh data.
func (s *service) Void(
	ctx context.Context,
	companyID, actorID, id string,
	req VoidPayrollRequest,
) (PayrollResponse, error) {
	if req.Reason == "" {
		return PayrollResponse{}, payrollerrors.ErrVoidReasonRequired
	}

	reason := req.Reason
	return s.transition(ctx, companyID, actorID, id, StatusVoided, ActionVoid, &reason,
		func(ctx context.Context, qtx Repository, payroll *Payroll) error {
			actorUUID := uuid.MustParse(actorID)
			now := time.Now().UTC()
			payroll.VoidedBy = &actorUUID
			payroll.VoidedAt = &now
			payroll.VoidReason = &reason
			return nil
		})
}

// transition menjalankan satu perpindahan status di dalam transaksi dengan
// row lock, lalu menulis tepat satu baris PayrollLog.
func (s *service) transition(
	ctx context.Context,
	companyID, actorID, id string,
	target, action string,
	reason *string,
	mutate func(ctx context.Context, qtx Repository, payroll *Payroll) error,
) (PayrollResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}

	if !isAllowedStatusTransition(payroll.Status, target) {
		return PayrollResponse{}, payrollerrors.ErrInvalidStatusTransition
	}
	previous := payroll.Status

	if err := mutate(ctx, qtx, payroll); err != nil {
		return PayrollResponse{}, err
	}
	payroll.Status = target

	if err := qtx.Update(ctx, payroll); err != nil {
		return PayrollResponse{}, err
	}

	if err := qtx.CreateLog(ctx, &PayrollLog{
		ID:             uuid.New(),
		PayrollID:      payroll.ID,
		CompanyID:      payroll.CompanyID,
		Action:         action,
		PreviousStatus: previous,
		NewStatus:      target,
		ActorID:        uuid.MustParse(actorID),
		Reason:         reason,
	}); err != nil {
		return PayrollResponse{}, err
	}

	if target == StatusReleased {
		if err := s.enqueuePayslipRequested(ctx, tx, payroll, actorID); err != nil {
			return PayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

func (s *service) enqueuePayslipRequested(ctx context.Context, tx *sql.Tx, payroll *Payroll, actorID string) error {
	event := events.PayrollPayslipRequestedEvent{
		EventType:   "payroll.payslip.requested",
		PayrollID:   payroll.ID.String(),
		CompanyID:   payroll.CompanyID.String(),
		RequestedBy: actorID,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll",
		AggregateID:   payroll.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayrollPayslipRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// GeneratePayslip dipanggil consumer setelah payroll RELEASED.
func (s *service) GeneratePayslip(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	if payroll.Status != StatusReleased {
		return PayrollResponse{}, payrollerrors.ErrPayrollNotReleased
	}

	pdf, err := buildSimplePayslipPDF(payslipLines(*payroll))
	if err != nil {
		return PayrollResponse{}, err
	}

	filename := fmt.Sprintf("payslip_%s.pdf", payroll.ID)
	if err := os.MkdirAll(s.payslipDir, 0o755); err != nil {
		return PayrollResponse{}, err
	}
	if err := os.WriteFile(filepath.Join(s.payslipDir, filename), pdf, 0o644); err != nil {
		return PayrollResponse{}, err
	}

	url := "/payslips/" + filename
	now := time.Now().UTC()
	if err := s.repo.UpdatePayslip(ctx, companyID, id, url, now); err != nil {
		return PayrollResponse{}, err
	}

	payroll.PayslipURL = &url
	payroll.PayslipGeneratedAt = &now

	s.logger.Info("payslip generated",
		zap.String("payroll_id", id),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*payroll), nil
}

func isAllowedStatusTransition(current, target string) bool {
	if target == StatusVoided {
		return current != StatusVoided
	}
	switch current {
	case StatusDraft:
		return target == StatusComputed
	case StatusComputed:
		return target == StatusApproved
	case StatusApproved:
		return target == StatusReleased
	default:
		return false
	}
}

func mapToResponse(payroll Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:              payroll.ID.String(),
		CompanyID:       payroll.CompanyID.String(),
		EmployeeID:      payroll.EmployeeID.String(),
		PeriodID:        payroll.PeriodID.String(),
		GrossPay:        payroll.GrossPay,
		TaxableIncome:   payroll.TaxableIncome,
		TotalDeductions: payroll.TotalDeductions,
		NetPay:          payroll.NetPay,
		Status:          payroll.Status,
		CreatedBy:       payroll.CreatedBy.String(),
		VoidReason:      payroll.VoidReason,
		PayslipURL:      payroll.PayslipURL,
	}

	if payroll.Employee != nil {
		resp.EmployeeName = payroll.Employee.FullName
	}
	if payroll.ApprovedBy != nil {
		v := payroll.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if payroll.ApprovedAt != nil {
		v := payroll.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if payroll.ReleasedBy != nil {
		v := payroll.ReleasedBy.String()
		resp.ReleasedBy = &v
	}
	if payroll.ReleasedAt != nil {
		v := payroll.ReleasedAt.Format(time.RFC3339)
		resp.ReleasedAt = &v
	}
	if payroll.VoidedBy != nil {
		v := payroll.VoidedBy.String()
		resp.VoidedBy = &v
	}
	if payroll.VoidedAt != nil {
		v := payroll.VoidedAt.Format(time.RFC3339)
		resp.VoidedAt = &v
	}
	if payroll.PayslipGeneratedAt != nil {
		v := payroll.PayslipGeneratedAt.Format(time.RFC3339)
		resp.PayslipGeneratedAt = &v
	}

	for _, e := range payroll.Earnings {
		resp.Earnings = append(resp.Earnings, PayrollEarningResponse{
			Type:       e.Type,
			Minutes:    e.Minutes,
			HourlyRate: e.HourlyRate,
			Amount:     e.Amount,
		})
	}
	for _, d := range payroll.Deductions {
		resp.Deductions = append(resp.Deductions, PayrollDeductionResponse{
			Type:   d.Type,
			Amount: d.Amount,
		})
	}

	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, payroll := range payrolls {
		resp[i] = mapToResponse(payroll)
	}
	return resp
}

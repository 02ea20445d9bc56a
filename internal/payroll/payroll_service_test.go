package payroll_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/compensation"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollperiod"
	"go-payroll/internal/statutory"
	"go-payroll/internal/timeentry"
	"go-payroll/internal/timesheet"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn                  func(tx *sql.Tx) payroll.Repository
	createFn                  func(ctx context.Context, p *payroll.Payroll) error
	findAllByCompanyFn        func(ctx context.Context, companyID string) ([]payroll.Payroll, error)
	findByIDAndCompanyFn      func(ctx context.Context, companyID, id string) (*payroll.Payroll, error)
	findByIDForUpdateFn       func(ctx context.Context, companyID, id string) (*payroll.Payroll, error)
	findByEmployeeAndPeriodFn func(ctx context.Context, companyID, employeeID, periodID string) (*payroll.Payroll, error)
	updateFn                  func(ctx context.Context, p *payroll.Payroll) error
	replaceComponentsFn       func(ctx context.Context, p *payroll.Payroll, earnings []payroll.PayrollEarning, deductions []payroll.PayrollDeduction) error
	createLogFn               func(ctx context.Context, log *payroll.PayrollLog) error
	listLogsFn                func(ctx context.Context, companyID, payrollID string) ([]payroll.PayrollLog, error)
	updatePayslipFn           func(ctx context.Context, companyID, id, url string, generatedAt time.Time) error
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.Payroll) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindAllByCompany(ctx context.Context, companyID string) ([]payroll.Payroll, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*payroll.Payroll, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*payroll.Payroll, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID, periodID string) (*payroll.Payroll, error) {
	if f.findByEmployeeAndPeriodFn != nil {
		return f.findByEmployeeAndPeriodFn(ctx, companyID, employeeID, periodID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.Payroll) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) ReplaceComponents(ctx context.Context, p *payroll.Payroll, earnings []payroll.PayrollEarning, deductions []payroll.PayrollDeduction) error {
	if f.replaceComponentsFn != nil {
		return f.replaceComponentsFn(ctx, p, earnings, deductions)
	}
	return nil
}

func (f *fakePayrollRepository) CreateLog(ctx context.Context, log *payroll.PayrollLog) error {
	if f.createLogFn != nil {
		return f.createLogFn(ctx, log)
	}
	return nil
}

func (f *fakePayrollRepository) ListLogs(ctx context.Context, companyID, payrollID string) ([]payroll.PayrollLog, error) {
	if f.listLogsFn != nil {
		return f.listLogsFn(ctx, companyID, payrollID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) UpdatePayslip(ctx context.Context, companyID, id, url string, generatedAt time.Time) error {
	if f.updatePayslipFn != nil {
		return f.updatePayslipFn(ctx, companyID, id, url, generatedAt)
	}
	return nil
}

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakePeriodGateway struct {
	findFn func(ctx context.Context, companyID, id string) (*payrollperiod.PayrollPeriod, error)
}

func (f *fakePeriodGateway) FindByIDAndCompany(ctx context.Context, companyID, id string) (*payrollperiod.PayrollPeriod, error) {
	if f.findFn != nil {
		return f.findFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeTimesheetGateway struct {
	calculateFn func(ctx context.Context, companyID, employeeID string, start, end time.Time) (timesheet.PeriodTimesheet, error)
}

func (f *fakeTimesheetGateway) CalculatePeriod(ctx context.Context, companyID, employeeID string, start, end time.Time) (timesheet.PeriodTimesheet, error) {
	if f.calculateFn != nil {
		return f.calculateFn(ctx, companyID, employeeID, start, end)
	}
	return timesheet.PeriodTimesheet{}, nil
}

type fakeEntryGateway struct {
	listFn func(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]timeentry.TimeEntry, error)
}

func (f *fakeEntryGateway) ListClosedByEmployeeAndRange(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]timeentry.TimeEntry, error) {
	if f.listFn != nil {
		return f.listFn(ctx, companyID, employeeID, start, end)
	}
	return nil, nil
}

type fakeCompensationGateway struct {
	findCurrentFn func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*compensation.Compensation, error)
}

func (f *fakeCompensationGateway) FindCurrent(ctx context.Context, companyID, employeeID string, asOf time.Time) (*compensation.Compensation, error) {
	if f.findCurrentFn != nil {
		return f.findCurrentFn(ctx, companyID, employeeID, asOf)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeStatutoryGateway struct {
	contributionsFn func(ctx context.Context, companyID string, gross int64, asOf time.Time) (statutory.Deductions, error)
	taxFn           func(ctx context.Context, companyID string, taxable int64, asOf time.Time) (int64, error)
}

func (f *fakeStatutoryGateway) ComputeContributions(ctx context.Context, companyID string, gross int64, asOf time.Time) (statutory.Deductions, error) {
	if f.contributionsFn != nil {
		return f.contributionsFn(ctx, companyID, gross, asOf)
	}
	return statutory.Deductions{}, nil
}

func (f *fakeStatutoryGateway) ComputeTax(ctx context.Context, companyID string, taxable int64, asOf time.Time) (int64, error) {
	if f.taxFn != nil {
		return f.taxFn(ctx, companyID, taxable, asOf)
	}
	return 0, nil
}

type payrollServiceDeps struct {
	db            *sql.DB
	sqlMock       sqlmock.Sqlmock
	service       payroll.Service
	repo          *fakePayrollRepository
	outbox        *fakeOutboxRepository
	periods       *fakePeriodGateway
	timesheets    *fakeTimesheetGateway
	entries       *fakeEntryGateway
	compensations *fakeCompensationGateway
	statutory     *fakeStatutoryGateway
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &payrollServiceDeps{
		db:            db,
		sqlMock:       sqlMock,
		repo:          &fakePayrollRepository{},
		outbox:        &fakeOutboxRepository{},
		periods:       &fakePeriodGateway{},
		timesheets:    &fakeTimesheetGateway{},
		entries:       &fakeEntryGateway{},
		compensations: &fakeCompensationGateway{},
		statutory:     &fakeStatutoryGateway{},
	}
	deps.service = payroll.NewService(
		db,
		deps.repo,
		deps.outbox,
		deps.periods,
		deps.timesheets,
		deps.entries,
		deps.compensations,
		deps.statutory,
		t.TempDir(),
	)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func draftPayroll(companyID, employeeID string) *payroll.Payroll {
	return &payroll.Payroll{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: uuid.MustParse(employeeID),
		PeriodID:   uuid.New(),
		Status:     payroll.StatusDraft,
		CreatedBy:  uuid.MustParse(employeeID),
	}
}

func TestPayrollService_Approve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("computed payroll is approved with audit trail", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		row := draftPayroll(companyID, actorID)
		row.Status = payroll.StatusComputed

		var logged []payroll.PayrollLog
		deps.repo.findByIDForUpdateFn = func(_ context.Context, _, _ string) (*payroll.Payroll, error) {
			return row, nil
		}
		deps.repo.createLogFn = func(_ context.Context, log *payroll.PayrollLog) error {
			logged = append(logged, *log)
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Approve(ctx, companyID, actorID, row.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, actorID, *resp.ApprovedBy)
		assert.NotNil(t, resp.ApprovedAt)

		assert.Len(t, logged, 1)
		assert.Equal(t, payroll.ActionApprove, logged[0].Action)
		assert.Equal(t, payroll.StatusComputed, logged[0].PreviousStatus)
		assert.Equal(t, payroll.StatusApproved, logged[0].NewStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("released payroll cannot move back to approved", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		row := draftPayroll(companyID, actorID)
		row.Status = payroll.StatusReleased

		var logCount int
		deps.repo.findByIDForUpdateFn = func(_ context.Context, _, _ string) (*payroll.Payroll, error) {
			return row, nil
		}
		deps.repo.createLogFn = func(_ context.Context, _ *payroll.PayrollLog) error {
			logCount++
			return nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, companyID, actorID, row.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
		assert.Equal(t, 0, logCount)
	})

	t.Run("draft payroll cannot skip compute", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		row := draftPayroll(companyID, actorID)

		deps.repo.findByIDForUpdateFn = func(_ context.Context, _, _ string) (*payroll.Payroll, error) {
			return row, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, companyID, actorID, row.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
	})
}

func TestPayrollService_Void(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("void without reason is rejected before touching the row", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)

		var lookedUp bool
		deps.repo.findByIDForUpdateFn = func(_ context.Context, _, _ string) (*payroll.Payroll, error) {
			lookedUp = true
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Void(ctx, companyID, actorID, uuid.New().String(), payroll.VoidPayrollRequest{})
		assert.ErrorIs(t, err, payrollerrors.ErrVoidReasonRequired)
		assert.False(t, lookedUp)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved payroll voids with reason on the log row", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		row := draftPayroll(companyID, actorID)
		row.Status = payroll.StatusApproved

		var logged []payroll.PayrollLog
		deps.repo.findByIDForUpdateFn = func(_ context.Context, _, _ string) (*payroll.Payroll, error) {
			return row, nil
		}
		deps.repo.createLogFn = func(_ context.Context, log *payroll.PayrollLog) error {
			logged = append(logged, *log)
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Void(ctx, companyID, actorID, row.ID.String(), payroll.VoidPayrollRequest{
			Reason: "duplicate generation",
		})
		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusVoided, resp.Status)
		assert.NotNil(t, resp.VoidReason)
		assert.Equal(t, "duplicate generation", *resp.VoidReason)

		assert.Len(t, logged, 1)
		assert.NotNil(t, logged[0].Reason)
		assert.Equal(t, "duplicate generation", *logged[0].Reason)
	})

	t.Run("voided payroll cannot be voided again", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		row := draftPayroll(companyID, actorID)
		row.Status = payroll.StatusVoided

		deps.repo.findByIDForUpdateFn = func(_ context.Context, _, _ string) (*payroll.Payroll, error) {
			return row, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Void(ctx, companyID, actorID, row.ID.String(), payroll.VoidPayrollRequest{
			Reason: "should not work",
		})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
	})
}

func TestPayrollService_Release(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("release enqueues a payslip event in the same transaction", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		row := draftPayroll(companyID, actorID)
		row.Status = payroll.StatusApproved

		var enqueued []kafka.OutboxEvent
		deps.repo.findByIDForUpdateFn = func(_ context.Context, _, _ string) (*payroll.Payroll, error) {
			return row, nil
		}
		deps.outbox.createFn = func(_ context.Context, event kafka.OutboxEvent) error {
			enqueued = append(enqueued, event)
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Release(ctx, companyID, actorID, row.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusReleased, resp.Status)
		assert.NotNil(t, resp.ReleasedBy)

		assert.Len(t, enqueued, 1)
		assert.Equal(t, "payroll", enqueued[0].AggregateType)
		assert.Equal(t, row.ID.String(), enqueued[0].AggregateID)
		assert.Equal(t, kafka.OutboxStatusPending, enqueued[0].Status)
	})

	t.Run("computed payroll cannot be released directly", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		row := draftPayroll(companyID, actorID)
		row.Status = payroll.StatusComputed

		var enqueued int
		deps.repo.findByIDForUpdateFn = func(_ context.Context, _, _ string) (*payroll.Payroll, error) {
			return row, nil
		}
		deps.outbox.createFn = func(_ context.Context, _ kafka.OutboxEvent) error {
			enqueued++
			return nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Release(ctx, companyID, actorID, row.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
		assert.Equal(t, 0, enqueued)
	})
}

func TestPayrollService_Generate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()
	periodID := uuid.New().String()

	period := &payrollperiod.PayrollPeriod{
		ID:        uuid.MustParse(periodID),
		CompanyID: uuid.MustParse(companyID),
		StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		PayDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	t.Run("existing payroll is returned without recompute", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		existing := draftPayroll(companyID, actorID)
		existing.EmployeeID = uuid.MustParse(employeeID)
		existing.GrossPay = 123456

		var assembled bool
		deps.repo.findByEmployeeAndPeriodFn = func(_ context.Context, _, _, _ string) (*payroll.Payroll, error) {
			return existing, nil
		}
		deps.timesheets.calculateFn = func(_ context.Context, _, _ string, _, _ time.Time) (timesheet.PeriodTimesheet, error) {
			assembled = true
			return timesheet.PeriodTimesheet{}, nil
		}

		resp, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID,
			PeriodID:   existing.PeriodID.String(),
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(123456), resp.GrossPay)
		assert.False(t, assembled)
	})

	t.Run("new payroll assembles earnings and deductions", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)

		deps.periods.findFn = func(_ context.Context, _, _ string) (*payrollperiod.PayrollPeriod, error) {
			return period, nil
		}
		deps.timesheets.calculateFn = func(_ context.Context, _, _ string, _, _ time.Time) (timesheet.PeriodTimesheet, error) {
			return timesheet.PeriodTimesheet{
				Totals: timesheet.PeriodTotals{
					RegularMinutes:          2400, // 5 hari x 8 jam
					PaidBreakMinutes:        0,
					OvertimeApprovedMinutes: 120,
					NightMinutes:            0,
					PayableMinutes:          2520,
				},
			}, nil
		}
		deps.compensations.findCurrentFn = func(_ context.Context, _, _ string, _ time.Time) (*compensation.Compensation, error) {
			// 176000 per bulan -> 1000 per jam
			return &compensation.Compensation{BaseSalary: 176000}, nil
		}
		deps.entries.listFn = func(_ context.Context, _, _ string, start, end time.Time) ([]timeentry.TimeEntry, error) {
			// Hadir tepat waktu setiap hari kerja dalam periode.
			var rows []timeentry.TimeEntry
			for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
				in := time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, time.UTC)
				out := in.Add(8 * time.Hour)
				rows = append(rows, timeentry.TimeEntry{
					ID:       uuid.New(),
					WorkDate: d,
					ClockIn:  in,
					ClockOut: &out,
					Status:   timeentry.StatusClosed,
				})
			}
			return rows, nil
		}
		deps.statutory.contributionsFn = func(_ context.Context, _ string, gross int64, _ time.Time) (statutory.Deductions, error) {
			return statutory.Deductions{SSS: 1000, PhilHealth: 500, PagIbig: 200}, nil
		}
		deps.statutory.taxFn = func(_ context.Context, _ string, taxable int64, _ time.Time) (int64, error) {
			return 3000, nil
		}

		var created *payroll.Payroll
		deps.repo.createFn = func(_ context.Context, p *payroll.Payroll) error {
			created = p
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID,
			PeriodID:   periodID,
		})
		assert.NoError(t, err)
		assert.NotNil(t, created)

		// Base 2400 menit @1000/jam = 40000; lembur 120 menit @1250 = 2500.
		assert.Equal(t, int64(42500), resp.GrossPay)
		assert.Equal(t, int64(40800), resp.TaxableIncome)
		assert.Equal(t, int64(4700), resp.TotalDeductions)
		assert.Equal(t, int64(37800), resp.NetPay)
		assert.Equal(t, payroll.StatusDraft, resp.Status)
		assert.Len(t, resp.Earnings, 2)
	})

	t.Run("missing compensation fails generation", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)

		deps.periods.findFn = func(_ context.Context, _, _ string) (*payrollperiod.PayrollPeriod, error) {
			return period, nil
		}
		deps.timesheets.calculateFn = func(_ context.Context, _, _ string, _, _ time.Time) (timesheet.PeriodTimesheet, error) {
			return timesheet.PeriodTimesheet{}, nil
		}

		_, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID,
			PeriodID:   periodID,
		})
		assert.Error(t, err)
	})
}

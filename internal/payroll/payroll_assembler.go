package payroll

import (
	"context"
	"errors"
	"time"

	"go-payroll/internal/compensation"
	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/payrollperiod"
	"go-payroll/internal/statutory"
	"go-payroll/internal/timeentry"
	"go-payroll/internal/timesheet"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kebijakan default sampai ada policy engine per company.
const (
	workStartHour       = 9
	lateGraceMinutes    = 15
	workingDaysPerMonth = 22
	workingHoursPerDay  = 8
	overtimeRatePct     = 125
	nightDiffPct        = 10
)

// TimesheetGateway dipenuhi oleh timesheet.Calculator.
type TimesheetGateway interface {
	CalculatePeriod(ctx context.Context, companyID, employeeID string, start, end time.Time) (timesheet.PeriodTimesheet, error)
}

// EntryGateway dipenuhi oleh timeentry.Repository.
type EntryGateway interface {
	ListClosedByEmployeeAndRange(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]timeentry.TimeEntry, error)
}

// CompensationGateway dipenuhi oleh compensation.Repository.
type CompensationGateway interface {
	FindCurrent(ctx context.Context, companyID, employeeID string, asOf time.Time) (*compensation.Compensation, error)
}

// StatutoryGateway dipenuhi oleh statutory.Engine.
type StatutoryGateway interface {
	ComputeContributions(ctx context.Context, companyID string, gross int64, asOf time.Time) (statutory.Deductions, error)
	ComputeTax(ctx context.Context, companyID string, taxable int64, asOf time.Time) (int64, error)
}

// PeriodGateway dipenuhi oleh payrollperiod.Repository.
type PeriodGateway interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*payrollperiod.PayrollPeriod, error)
}

type assembler struct {
	timesheets    TimesheetGateway
	entries       EntryGateway
	compensations CompensationGateway
	statutory     StatutoryGateway
}

type assembly struct {
	GrossPay        int64
	TaxableIncome   int64
	TotalDeductions int64
	NetPay          int64
	Earnings        []PayrollEarning
	Deductions      []PayrollDeduction
}

// assemble menghitung seluruh komponen payroll satu karyawan untuk satu
// periode: earnings dari timesheet, potongan wajib dari statutory engine,
// lalu potongan kebijakan (telat dan absen).
func (a *assembler) assemble(
	ctx context.Context,
	companyID, employeeID string,
	period *payrollperiod.PayrollPeriod,
) (assembly, error) {
	sheet, err := a.timesheets.CalculatePeriod(ctx, companyID, employeeID, period.StartDate, period.EndDate)
	if err != nil {
		return assembly{}, err
	}

	comp, err := a.compensations.FindCurrent(ctx, companyID, employeeID, period.EndDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return assembly{}, compensationerrors.ErrNoCompensation
		}
		return assembly{}, err
	}

	hourlyRate := comp.BaseSalary / (workingDaysPerMonth * workingHoursPerDay)

	entries, err := a.entries.ListClosedByEmployeeAndRange(ctx, companyID, employeeID, period.StartDate, period.EndDate)
	if err != nil {
		return assembly{}, err
	}

	out := assembly{
		Earnings: buildEarnings(sheet.Totals, hourlyRate),
	}
	for _, e := range out.Earnings {
		out.GrossPay += e.Amount
	}

	contrib, err := a.statutory.ComputeContributions(ctx, companyID, out.GrossPay, period.PayDate)
	if err != nil {
		return assembly{}, err
	}

	out.TaxableIncome = out.GrossPay - contrib.Total()
	if out.TaxableIncome < 0 {
		out.TaxableIncome = 0
	}

	tax, err := a.statutory.ComputeTax(ctx, companyID, out.TaxableIncome, period.PayDate)
	if err != nil {
		return assembly{}, err
	}

	lateAmount := lateMinutes(entries) * hourlyRate / 60
	absenceAmount := absentWeekdays(entries, period.StartDate, period.EndDate) * hourlyRate * workingHoursPerDay

	out.Deductions = buildDeductions(tax, contrib, lateAmount, absenceAmount)
	for _, d := range out.Deductions {
		out.TotalDeductions += d.Amount
	}
	if out.TotalDeductions > out.GrossPay {
		out.TotalDeductions = out.GrossPay
	}

	out.NetPay = out.GrossPay - out.TotalDeductions
	return out, nil
}

func buildEarnings(totals timesheet.PeriodTotals, hourlyRate int64) []PayrollEarning {
	earnings := []PayrollEarning{
		{
			Type:       EarningBaseSalary,
			Minutes:    totals.RegularMinutes + totals.PaidBreakMinutes,
			HourlyRate: hourlyRate,
		},
	}

	if totals.OvertimeApprovedMinutes > 0 {
		earnings = append(earnings, PayrollEarning{
			Type:       EarningOvertime,
			Minutes:    totals.OvertimeApprovedMinutes,
			HourlyRate: hourlyRate * overtimeRatePct / 100,
		})
	}
	if totals.NightMinutes > 0 {
		earnings = append(earnings, PayrollEarning{
			Type:       EarningNightDifferential,
			Minutes:    totals.NightMinutes,
			HourlyRate: hourlyRate * nightDiffPct / 100,
		})
	}

	for i := range earnings {
		earnings[i].Amount = earnings[i].Minutes * earnings[i].HourlyRate / 60
	}
	return earnings
}

func buildDeductions(tax int64, contrib statutory.Deductions, lateAmount, absenceAmount int64) []PayrollDeduction {
	deductions := []PayrollDeduction{
		{Type: DeductionTax, Amount: tax},
		{Type: DeductionSSS, Amount: contrib.SSS},
		{Type: DeductionPhilHealth, Amount: contrib.PhilHealth},
		{Type: DeductionPagIbig, Amount: contrib.PagIbig},
	}
	if lateAmount > 0 {
		deductions = append(deductions, PayrollDeduction{Type: DeductionLate, Amount: lateAmount})
	}
	if absenceAmount > 0 {
		deductions = append(deductions, PayrollDeduction{Type: DeductionAbsence, Amount: absenceAmount})
	}
	return deductions
}

// lateMinutes menjumlahkan menit keterlambatan di atas jam masuk + grace.
func lateMinutes(entries []timeentry.TimeEntry) int64 {
	var total int64
	for _, e := range entries {
		threshold := time.Date(
			e.WorkDate.Year(), e.WorkDate.Month(), e.WorkDate.Day(),
			workStartHour, lateGraceMinutes, 0, 0, e.ClockIn.Location(),
		)
		if e.ClockIn.After(threshold) {
			total += int64(e.ClockIn.Sub(threshold) / time.Minute)
		}
	}
	return total
}

// absentWeekdays menghitung hari kerja (Senin-Jumat) dalam periode yang tidak
// punya satu pun entry CLOSED.
func absentWeekdays(entries []timeentry.TimeEntry, start, end time.Time) int64 {
	worked := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		worked[e.WorkDate.Format("2006-01-02")] = struct{}{}
	}

	var absent int64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if _, ok := worked[d.Format("2006-01-02")]; !ok {
			absent++
		}
	}
	return absent
}

func attachIDs(payrollID, companyID uuid.UUID, a *assembly) {
	for i := range a.Earnings {
		a.Earnings[i].ID = uuid.New()
		a.Earnings[i].PayrollID = payrollID
		a.Earnings[i].CompanyID = companyID
	}
	for i := range a.Deductions {
		a.Deductions[i].ID = uuid.New()
		a.Deductions[i].PayrollID = payrollID
		a.Deductions[i].CompanyID = companyID
	}
}

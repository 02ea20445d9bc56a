package timesheet

import (
	"context"
	"time"

	"go-payroll/internal/timeentry"
	timesheeterrors "go-payroll/internal/timesheet/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegularDailyCapMinutes adalah batas jam kerja reguler per hari (8 jam).
// Menit di atas batas ini hanya dibayar sebatas lembur yang disetujui.
const RegularDailyCapMinutes = 480

// Jendela night differential: 22:00 - 06:00.
const (
	nightWindowStartHour = 22
	nightWindowEndHour   = 6
)

// EntryGateway dipenuhi oleh timeentry.Repository.
type EntryGateway interface {
	ListClosedByEmployeeAndRange(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]timeentry.TimeEntry, error)
	ListBreaks(ctx context.Context, companyID, timeEntryID string) ([]timeentry.TimeEntryBreak, error)
}

// OvertimeGateway dipenuhi oleh overtime.Resolver. Kontraknya tidak pernah
// gagal: kegagalan lookup sudah di-recover menjadi 0 di dalam resolver.
type OvertimeGateway interface {
	ApprovedMinutes(ctx context.Context, companyID, employeeID string, workDate time.Time) int64
}

type EntryBreakdown struct {
	TimeEntryID             uuid.UUID `json:"time_entry_id"`
	WorkDate                string    `json:"work_date"`
	RawMinutes              int64     `json:"raw_minutes"`
	PaidBreakMinutes        int64     `json:"paid_break_minutes"`
	UnpaidBreakMinutes      int64     `json:"unpaid_break_minutes"`
	NetWorkMinutes          int64     `json:"net_work_minutes"`
	RegularMinutes          int64     `json:"regular_minutes"`
	OvertimeRawMinutes      int64     `json:"overtime_raw_minutes"`
	OvertimeApprovedMinutes int64     `json:"overtime_approved_minutes"`
	NightMinutes            int64     `json:"night_minutes"`
	PayableMinutes          int64     `json:"payable_minutes"`
}

type PeriodTotals struct {
	EntryCount              int   `json:"entry_count"`
	RawMinutes              int64 `json:"raw_minutes"`
	PaidBreakMinutes        int64 `json:"paid_break_minutes"`
	UnpaidBreakMinutes      int64 `json:"unpaid_break_minutes"`
	NetWorkMinutes          int64 `json:"net_work_minutes"`
	RegularMinutes          int64 `json:"regular_minutes"`
	OvertimeRawMinutes      int64 `json:"overtime_raw_minutes"`
	OvertimeApprovedMinutes int64 `json:"overtime_approved_minutes"`
	NightMinutes            int64 `json:"night_minutes"`
	PayableMinutes          int64 `json:"payable_minutes"`
}

type PeriodTimesheet struct {
	EmployeeID  string           `json:"employee_id"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	Entries     []EntryBreakdown `json:"entries"`
	Totals      PeriodTotals     `json:"totals"`
}

// Calculator adalah proyeksi murni dari time entries + breaks + approved
// overtime menjadi menit yang dibayar. Tidak menyimpan state apapun sehingga
// perhitungan ulang selalu menghasilkan output yang identik.
type Calculator struct {
	entries  EntryGateway
	overtime OvertimeGateway
	logger   *zap.Logger
}

func NewCalculator(entries EntryGateway, overtime OvertimeGateway, logger ...*zap.Logger) *Calculator {
	l := zap.L().Named("timesheet.calculator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.calculator")
	}
	return &Calculator{entries: entries, overtime: overtime, logger: l}
}

// CalculateEntry menghitung breakdown satu time entry yang sudah CLOSED.
// Entry tanpa clock out menggagalkan perhitungan, tidak pernah dianggap nol.
func CalculateEntry(e timeentry.TimeEntry, breaks []timeentry.TimeEntryBreak, approvedOvertimeMinutes int64) (EntryBreakdown, error) {
	if e.ClockOut == nil {
		return EntryBreakdown{}, timesheeterrors.ErrIncompleteEntry
	}

	raw := floorMinutes(e.ClockOut.Sub(e.ClockIn))
	paidBreak, unpaidBreak := classifyBreaks(breaks)

	netWork := raw - unpaidBreak
	if netWork < 0 {
		netWork = 0
	}

	regular := netWork
	if regular > RegularDailyCapMinutes {
		regular = RegularDailyCapMinutes
	}

	overtimeRaw := netWork - RegularDailyCapMinutes
	if overtimeRaw < 0 {
		overtimeRaw = 0
	}

	overtimeApproved := overtimeRaw
	if overtimeApproved > approvedOvertimeMinutes {
		overtimeApproved = approvedOvertimeMinutes
	}
	if overtimeApproved < 0 {
		overtimeApproved = 0
	}

	// Istirahat berbayar ditambahkan di atas cap reguler, bukan dihitung
	// sebagai jam kerja.
	payable := regular + overtimeApproved + paidBreak

	return EntryBreakdown{
		TimeEntryID:             e.ID,
		WorkDate:                e.WorkDate.Format("2006-01-02"),
		RawMinutes:              raw,
		PaidBreakMinutes:        paidBreak,
		UnpaidBreakMinutes:      unpaidBreak,
		NetWorkMinutes:          netWork,
		RegularMinutes:          regular,
		OvertimeRawMinutes:      overtimeRaw,
		OvertimeApprovedMinutes: overtimeApproved,
		NightMinutes:            nightMinutes(e.ClockIn, *e.ClockOut),
		PayableMinutes:          payable,
	}, nil
}

// CalculatePeriod mengagregasi seluruh entry CLOSED dalam rentang tanggal.
// Satu entry yang tidak lengkap menggagalkan seluruh periode agar payroll
// tidak pernah dihitung kurang secara diam-diam.
func (c *Calculator) CalculatePeriod(ctx context.Context, companyID, employeeID string, start, end time.Time) (PeriodTimesheet, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return PeriodTimesheet{}, timesheeterrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return PeriodTimesheet{}, timesheeterrors.ErrInvalidEmployeeID
	}
	if start.After(end) {
		return PeriodTimesheet{}, timesheeterrors.ErrInvalidDateRange
	}

	entries, err := c.entries.ListClosedByEmployeeAndRange(ctx, companyID, employeeID, start, end)
	if err != nil {
		return PeriodTimesheet{}, err
	}

	result := PeriodTimesheet{
		EmployeeID:  employeeID,
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.Format("2006-01-02"),
		Entries:     make([]EntryBreakdown, 0, len(entries)),
	}

	for _, e := range entries {
		breaks, err := c.entries.ListBreaks(ctx, companyID, e.ID.String())
		if err != nil {
			return PeriodTimesheet{}, err
		}

		approved := c.overtime.ApprovedMinutes(ctx, companyID, employeeID, e.WorkDate)

		breakdown, err := CalculateEntry(e, breaks, approved)
		if err != nil {
			c.logger.Warn("period calculation aborted on incomplete entry",
				zap.String("time_entry_id", e.ID.String()),
				zap.String("employee_id", employeeID),
				zap.String("work_date", e.WorkDate.Format("2006-01-02")),
			)
			return PeriodTimesheet{}, err
		}

		result.Entries = append(result.Entries, breakdown)
		accumulate(&result.Totals, breakdown)
	}

	return result, nil
}

func accumulate(t *PeriodTotals, b EntryBreakdown) {
	t.EntryCount++
	t.RawMinutes += b.RawMinutes
	t.PaidBreakMinutes += b.PaidBreakMinutes
	t.UnpaidBreakMinutes += b.UnpaidBreakMinutes
	t.NetWorkMinutes += b.NetWorkMinutes
	t.RegularMinutes += b.RegularMinutes
	t.OvertimeRawMinutes += b.OvertimeRawMinutes
	t.OvertimeApprovedMinutes += b.OvertimeApprovedMinutes
	t.NightMinutes += b.NightMinutes
	t.PayableMinutes += b.PayableMinutes
}

// classifyBreaks menjumlahkan durasi break per bucket. Break yang belum
// selesai (break_end null) menyumbang 0 menit ke kedua bucket.
func classifyBreaks(breaks []timeentry.TimeEntryBreak) (paid, unpaid int64) {
	for _, b := range breaks {
		if b.BreakEnd == nil {
			continue
		}
		minutes := floorMinutes(b.BreakEnd.Sub(b.BreakStart))
		if minutes <= 0 {
			continue
		}
		if b.Paid {
			paid += minutes
		} else {
			unpaid += minutes
		}
	}
	return paid, unpaid
}

// nightMinutes menghitung menit yang tumpang tindih dengan jendela malam
// 22:00-06:00, termasuk shift yang melewati tengah malam.
func nightMinutes(clockIn, clockOut time.Time) int64 {
	if !clockOut.After(clockIn) {
		return 0
	}

	var total int64
	// Mulai dari jendela malam sehari sebelum clock in agar shift yang
	// dimulai dini hari tetap terhitung.
	day := clockIn.Truncate(24 * time.Hour).AddDate(0, 0, -1)
	for !day.After(clockOut) {
		windowStart := time.Date(day.Year(), day.Month(), day.Day(), nightWindowStartHour, 0, 0, 0, clockIn.Location())
		windowEnd := windowStart.Add(time.Duration(24-nightWindowStartHour+nightWindowEndHour) * time.Hour)

		overlapStart := maxTime(clockIn, windowStart)
		overlapEnd := minTime(clockOut, windowEnd)
		if overlapEnd.After(overlapStart) {
			total += floorMinutes(overlapEnd.Sub(overlapStart))
		}

		day = day.AddDate(0, 0, 1)
	}
	return total
}

func floorMinutes(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Minute)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

package timeentry

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timeentry_repo.go -destination=mock/timeentry_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *TimeEntry) error
	Update(ctx context.Context, e *TimeEntry) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*TimeEntry, error)
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*TimeEntry, error)
	FindOpenByEmployee(ctx context.Context, companyID, employeeID string) (*TimeEntry, error)
	ListClosedByEmployeeAndRange(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]TimeEntry, error)
	ListByCompany(ctx context.Context, companyID string) ([]TimeEntry, error)
	ListBreaks(ctx context.Context, companyID, timeEntryID string) ([]TimeEntryBreak, error)
	FindOpenBreak(ctx context.Context, companyID, timeEntryID string) (*TimeEntryBreak, error)
	CreateBreak(ctx context.Context, b *TimeEntryBreak) error
	UpdateBreak(ctx context.Context, b *TimeEntryBreak) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{Context: r.db.Statement.Context, NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, e *TimeEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) Update(ctx context.Context, e *TimeEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		First(&e).Error
	return &e, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", date.Format("2006-01-02")).
		First(&e).Error
	return &e, err
}

// FindOpenByEmployee mencari entri yang belum ditutup tanpa melihat work_date,
// supaya shift yang melewati tengah malam tetap bisa ditutup.
func (r *repository) FindOpenByEmployee(ctx context.Context, companyID, employeeID string) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusOpen).
		Order("work_date DESC, clock_in DESC").
		First(&e).Error
	return &e, err
}

func (r *repository) ListClosedByEmployeeAndRange(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("work_date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Where("status = ?", StatusClosed).
		Order("work_date ASC, clock_in ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID string) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("work_date DESC, clock_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListBreaks(ctx context.Context, companyID, timeEntryID string) ([]TimeEntryBreak, error) {
	var rows []TimeEntryBreak
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("time_entry_id = ?", timeEntryID).
		Order("break_start ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindOpenBreak(ctx context.Context, companyID, timeEntryID string) (*TimeEntryBreak, error) {
	var b TimeEntryBreak
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("time_entry_id = ?", timeEntryID).
		Where("break_end IS NULL").
		First(&b).Error
	return &b, err
}

func (r *repository) CreateBreak(ctx context.Context, b *TimeEntryBreak) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) UpdateBreak(ctx context.Context, b *TimeEntryBreak) error {
	return r.db.WithContext(ctx).Save(b).Error
}

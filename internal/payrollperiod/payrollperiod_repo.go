package payrollperiod

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payrollperiod_repo.go -destination=mock/payrollperiod_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *PayrollPeriod) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollPeriod, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]PayrollPeriod, error)
	HasOverlappingPeriod(ctx context.Context, companyID string, startDate, endDate time.Time) (bool, error)
	UpdateStatus(ctx context.Context, companyID, id, status string) error
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

func (r *repository) Create(ctx context.Context, p *PayrollPeriod) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollPeriod, error) {
	var p PayrollPeriod
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		First(&p).Error
	return &p, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]PayrollPeriod, error) {
	var rows []PayrollPeriod
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

// HasOverlappingPeriod mengecek irisan rentang dengan periode lain yang
// belum dibatalkan. Dua periode beririsan kalau start <= end' dan end >= start'.
func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayrollPeriod{}).
		Where("company_id = ?", companyID).
		Where("status <> ?", StatusCancelled).
		Where("start_date <= ?", endDate.Format("2006-01-02")).
		Where("end_date >= ?", startDate.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&PayrollPeriod{}).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Update("status", status).Error
}

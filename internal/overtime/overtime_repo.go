package overtime

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=overtime_repo.go -destination=mock/overtime_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, o *OvertimeRequest) error
	Update(ctx context.Context, o *OvertimeRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*OvertimeRequest, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]OvertimeRequest, error)
	SumApprovedMinutes(ctx context.Context, companyID, employeeID string, workDate time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, o *OvertimeRequest) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *repository) Update(ctx context.Context, o *OvertimeRequest) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*OvertimeRequest, error) {
	var o OvertimeRequest
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		First(&o).Error
	return &o, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]OvertimeRequest, error) {
	var rows []OvertimeRequest
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("work_date DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) SumApprovedMinutes(ctx context.Context, companyID, employeeID string, workDate time.Time) (int64, error) {
	var total sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&OvertimeRequest{}).
		Select("SUM(approved_minutes)").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", workDate.Format("2006-01-02")).
		Where("status = ?", StatusApproved).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Int64, nil
}

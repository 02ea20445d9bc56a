package compensation

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_repo.go -destination=mock/compensation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Compensation) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Compensation, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Compensation, error)
	FindCurrent(ctx context.Context, companyID, employeeID string, asOf time.Time) (*Compensation, error)
	Delete(ctx context.Context, companyID, id string) error
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

func (r *repository) Create(ctx context.Context, c *Compensation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Compensation, error) {
	var c Compensation
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		First(&c).Error
	return &c, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Compensation, error) {
	var rows []Compensation
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("employee_id, effective_date DESC").
		Find(&rows).Error
	return rows, err
}

// FindCurrent mengambil kompensasi terbaru dengan effective_date <= asOf.
func (r *repository) FindCurrent(ctx context.Context, companyID, employeeID string, asOf time.Time) (*Compensation, error) {
	var c Compensation
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("effective_date <= ?", asOf.Format("2006-01-02")).
		Order("effective_date DESC").
		First(&c).Error
	return &c, err
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Delete(&Compensation{}).Error
}

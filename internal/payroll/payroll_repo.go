package payroll

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payroll *Payroll) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Payroll, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payroll, error)
	// FindByIDForUpdate mengambil baris payroll dengan row lock; dua transisi
	// paralel pada payroll yang sama akan serial di sini.
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*Payroll, error)
	FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID, periodID string) (*Payroll, error)
	Update(ctx context.Context, payroll *Payroll) error
	ReplaceComponents(ctx context.Context, payroll *Payroll, earnings []PayrollEarning, deductions []PayrollDeduction) error
	CreateLog(ctx context.Context, log *PayrollLog) error
	ListLogs(ctx context.Context, companyID, payrollID string) ([]PayrollLog, error)
	UpdatePayslip(ctx context.Context, companyID, id, url string, generatedAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx mengikat seluruh query repository ke transaksi milik service lewat
// ConnPool session; row lock dan tulisan domain ikut commit/rollback yang sama.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{Context: r.db.Statement.Context, NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.db.WithContext(ctx).Create(payroll).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Earnings").
		Preload("Deductions").
		Preload("Employee").
		Order("created_at DESC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Earnings").
		Preload("Deductions").
		Preload("Employee").
		First(&payroll, "id = ?", id).Error
	return &payroll, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ?", companyID).
		First(&payroll, "id = ?", id).Error
	return &payroll, err
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID, periodID string) (*Payroll, error) {
	var payroll Payroll
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("period_id = ?", periodID).
		Preload("Earnings").
		Preload("Deductions").
		Preload("Employee").
		First(&payroll).Error
	return &payroll, err
}

func (r *repository) Update(ctx context.Context, payroll *Payroll) error {
	return r.db.WithContext(ctx).
		Omit("Earnings", "Deductions", "Employee").
		Save(payroll).Error
}

// ReplaceComponents membuang earnings/deductions lama dan menulis hasil
// hitung ulang, dipakai saat Compute pada payroll DRAFT.
func (r *repository) ReplaceComponents(
	ctx context.Context,
	payroll *Payroll,
	earnings []PayrollEarning,
	deductions []PayrollDeduction,
) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("payroll_id = ?", payroll.ID).Delete(&PayrollEarning{}).Error; err != nil {
		return err
	}
	if err := db.Where("payroll_id = ?", payroll.ID).Delete(&PayrollDeduction{}).Error; err != nil {
		return err
	}
	if len(earnings) > 0 {
		if err := db.Create(&earnings).Error; err != nil {
			return err
		}
	}
	if len(deductions) > 0 {
		if err := db.Create(&deductions).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) CreateLog(ctx context.Context, log *PayrollLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) ListLogs(ctx context.Context, companyID, payrollID string) ([]PayrollLog, error) {
	var logs []PayrollLog
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("payroll_id = ?", payrollID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *repository) UpdatePayslip(ctx context.Context, companyID, id, url string, generatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payslip_url":          url,
			"payslip_generated_at": generatedAt,
		}).Error
}

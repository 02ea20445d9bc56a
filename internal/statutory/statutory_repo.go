package statutory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=statutory_repo.go -destination=mock/statutory_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *RateTable) error
	FindByID(ctx context.Context, id string) (*RateTable, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]RateTable, error)
	// FindApplicable mengambil tabel company untuk kind+asOf; kalau tidak ada,
	// jatuh ke tabel global (company_id IS NULL).
	FindApplicable(ctx context.Context, companyID, kind string, asOf time.Time) (*RateTable, error)
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db    *gorm.DB
	group *singleflight.Group
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db, group: &singleflight.Group{}}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{Context: r.db.Statement.Context, NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session, group: r.group}
}

func (r *repository) Create(ctx context.Context, t *RateTable) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*RateTable, error) {
	var t RateTable
	err := r.db.WithContext(ctx).
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("lower_bound ASC")
		}).
		Where("id = ?", id).
		First(&t).Error
	return &t, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]RateTable, error) {
	var rows []RateTable
	err := r.db.WithContext(ctx).
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("lower_bound ASC")
		}).
		Where("company_id = ? OR company_id IS NULL", companyID).
		Order("kind, effective_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindApplicable(ctx context.Context, companyID, kind string, asOf time.Time) (*RateTable, error) {
	// Satu run payroll memanggil lookup yang sama untuk tiap karyawan;
	// singleflight menggabungkan query identik yang sedang berjalan.
	key := fmt.Sprintf("%s|%s|%s", companyID, kind, asOf.Format("2006-01-02"))
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		// Hasil flight dibagi ke semua caller yang menumpang, jadi query
		// tidak boleh ikut batal saat caller pertama dibatalkan.
		return r.findApplicable(context.WithoutCancel(ctx), companyID, kind, asOf)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RateTable), nil
}

func (r *repository) findApplicable(ctx context.Context, companyID, kind string, asOf time.Time) (*RateTable, error) {
	asOfDate := asOf.Format("2006-01-02")

	var t RateTable
	err := r.db.WithContext(ctx).
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("lower_bound ASC")
		}).
		Where("company_id = ?", companyID).
		Where("kind = ?", kind).
		Where("effective_date <= ?", asOfDate).
		Order("effective_date DESC").
		First(&t).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("lower_bound ASC")
		}).
		Where("company_id IS NULL").
		Where("kind = ?", kind).
		Where("effective_date <= ?", asOfDate).
		Order("effective_date DESC").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Delete(&RateTable{}).Error
}

package payroll_test

import (
	"context"
	"database/sql"
	"testing"

	"go-payroll/internal/payroll"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Dua koneksi terpisah: pool milik gorm dan koneksi transaksi milik service.
// Repository hasil WithTx harus menjalankan semua statement di koneksi
// transaksi, bukan autocommit di pool.
func setupTxRepo(t *testing.T) (payroll.Repository, sqlmock.Sqlmock, *sql.Tx, sqlmock.Sqlmock) {
	t.Helper()

	poolConn, poolMock, err := sqlmock.New()
	assert.NoError(t, err)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: poolConn}), &gorm.Config{})
	assert.NoError(t, err)

	txConn, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	txMock.ExpectBegin()
	tx, err := txConn.Begin()
	assert.NoError(t, err)

	t.Cleanup(func() {
		poolConn.Close()
		txConn.Close()
	})

	return payroll.NewRepository(gdb).WithTx(tx), poolMock, tx, txMock
}

func TestRepositoryWithTx(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	payrollID := uuid.New()

	repo, poolMock, tx, txMock := setupTxRepo(t)

	txMock.ExpectQuery(`SELECT (.+) FROM "payrolls" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "employee_id", "period_id", "status"}).
			AddRow(payrollID.String(), companyID.String(), uuid.New().String(), uuid.New().String(), payroll.StatusComputed))

	row, err := repo.FindByIDForUpdate(ctx, companyID.String(), payrollID.String())
	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusComputed, row.Status)

	row.Status = payroll.StatusApproved
	txMock.ExpectExec(`UPDATE "payrolls" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Update(ctx, row))

	logID := uuid.New()
	txMock.ExpectQuery(`INSERT INTO "payroll_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(logID.String()))
	assert.NoError(t, repo.CreateLog(ctx, &payroll.PayrollLog{
		ID:             logID,
		PayrollID:      payrollID,
		CompanyID:      companyID,
		Action:         payroll.ActionApprove,
		PreviousStatus: payroll.StatusComputed,
		NewStatus:      payroll.StatusApproved,
		ActorID:        uuid.New(),
	}))

	txMock.ExpectCommit()
	assert.NoError(t, tx.Commit())

	// Row lock, update, dan log semuanya tercatat di koneksi transaksi;
	// pool gorm tidak menerima satu statement pun.
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRepositoryWithTxRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	payrollID := uuid.New()

	repo, poolMock, tx, txMock := setupTxRepo(t)

	txMock.ExpectQuery(`INSERT INTO "payrolls"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(payrollID.String()))

	assert.NoError(t, repo.Create(ctx, &payroll.Payroll{
		ID:         payrollID,
		CompanyID:  companyID,
		EmployeeID: uuid.New(),
		PeriodID:   uuid.New(),
		Status:     payroll.StatusDraft,
		CreatedBy:  uuid.New(),
	}))

	// Insert terjadi di dalam transaksi, jadi rollback membatalkannya.
	txMock.ExpectRollback()
	assert.NoError(t, tx.Rollback())

	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

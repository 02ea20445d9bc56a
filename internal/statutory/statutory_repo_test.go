package statutory_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/statutory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Pembatalan request pertama tidak boleh menggagalkan lookup yang hasilnya
// dibagi ke caller lain lewat singleflight.
func TestRepositoryFindApplicableSurvivesCancelledCaller(t *testing.T) {
	conn, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer conn.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	assert.NoError(t, err)

	repo := statutory.NewRepository(gdb)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tableID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "statutory_rate_tables"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "rate_bp", "effective_date"}).
			AddRow(tableID.String(), statutory.KindSSS, int64(450), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	mock.ExpectQuery(`SELECT (.+) FROM "statutory_rate_brackets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rate_table_id"}))

	got, err := repo.FindApplicable(ctx, uuid.New().String(), statutory.KindSSS, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, tableID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

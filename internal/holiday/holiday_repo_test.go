package holiday_test

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"go-leaveflow/internal/holiday"
)

func newGormOverMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestDatesInRange_FiltersByCountry(t *testing.T) {
	gdb, mock := newGormOverMock(t)

	companyID := uuid.NewString()
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)
	mayDay := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT date FROM "bank_holidays" WHERE company_id = \$1 AND country = \$2 AND date BETWEEN \$3 AND \$4`).
		WithArgs(companyID, "GB", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"date"}).AddRow(mayDay))

	repo := holiday.NewRepository(gdb)
	set, err := repo.DatesInRange(context.Background(), companyID, "GB", from, to)
	require.NoError(t, err)

	assert.True(t, set.Contains(mayDay))
	assert.Len(t, set, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

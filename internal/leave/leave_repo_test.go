package leave_test

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	gormlib "gorm.io/gorm"

	"go-leaveflow/internal/leave"
)

func newGormOverMock(t *testing.T) (*gormlib.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gormlib.Open(postgres.New(postgres.Config{Conn: db}), &gormlib.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestLeaveRepository_WithTxBindsTransaction(t *testing.T) {
	gdb, poolMock := newGormOverMock(t)

	txDB, txMock, err := sqlmock.New()
	require.NoError(t, err)
	defer txDB.Close()

	requestID := uuid.NewString()
	companyID := uuid.NewString()

	txMock.ExpectBegin()
	txMock.ExpectQuery(`SELECT \* FROM "leave_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "status"}).
			AddRow(requestID, companyID, leave.StatusNew))
	txMock.ExpectExec(`UPDATE "leave_requests"`).WillReturnResult(sqlmock.NewResult(0, 1))
	txMock.ExpectRollback()

	tx, err := txDB.Begin()
	require.NoError(t, err)

	repo := leave.NewRepository(gdb).WithTx(tx)

	got, err := repo.FindByIDAndCompany(context.Background(), companyID, requestID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusNew, got.Status)

	got.Status = leave.StatusApproved
	assert.NoError(t, repo.Update(context.Background(), got))

	assert.NoError(t, tx.Rollback())

	// Re-read and status write both ran on the transaction connection.
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

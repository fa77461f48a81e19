package approval_test

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

	"go-leaveflow/internal/approval"
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

func TestStepRepository_WithTxBindsTransaction(t *testing.T) {
	gdb, poolMock := newGormOverMock(t)

	txDB, txMock, err := sqlmock.New()
	require.NoError(t, err)
	defer txDB.Close()

	txMock.ExpectBegin()
	txMock.ExpectExec(`UPDATE "approval_steps"`).WillReturnResult(sqlmock.NewResult(0, 1))
	txMock.ExpectQuery(`SELECT \* FROM "approval_steps"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sequence_order", "status"}).
			AddRow(uuid.NewString(), 1, int(approval.StepApproved)))
	txMock.ExpectRollback()

	tx, err := txDB.Begin()
	require.NoError(t, err)

	repo := approval.NewStepRepository(gdb).WithTx(tx)

	now := time.Now()
	step := &approval.Step{
		ID:            uuid.New(),
		CompanyID:     uuid.New(),
		RequestID:     uuid.New(),
		ApproverID:    uuid.New(),
		SequenceOrder: 1,
		Status:        approval.StepApproved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	assert.NoError(t, repo.Update(context.Background(), step))

	steps, err := repo.ListByRequest(context.Background(), step.CompanyID.String(), step.RequestID.String())
	assert.NoError(t, err)
	assert.Len(t, steps, 1)

	assert.NoError(t, tx.Rollback())

	// Both the write and the re-read ran on the transaction connection;
	// the pool connection saw no traffic at all.
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestStepRepository_WithoutTxUsesPool(t *testing.T) {
	gdb, poolMock := newGormOverMock(t)

	poolMock.ExpectQuery(`SELECT \* FROM "approval_steps"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sequence_order", "status"}))

	repo := approval.NewStepRepository(gdb)
	_, err := repo.ListByRequest(context.Background(), uuid.NewString(), uuid.NewString())
	assert.NoError(t, err)
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

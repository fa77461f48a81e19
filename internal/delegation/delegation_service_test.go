package delegation_test

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"go-leaveflow/internal/delegation"
	delegationerrors "go-leaveflow/internal/delegation/errors"
	"go-leaveflow/internal/delegation/mock"
	"go-leaveflow/internal/employee"
)

type fakeEmployeeRepo struct {
	belongsToCompany func(ctx context.Context, companyID, id string) (bool, error)
}

func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) BelongsToCompany(ctx context.Context, companyID, id string) (bool, error) {
	if f.belongsToCompany != nil {
		return f.belongsToCompany(ctx, companyID, id)
	}
	return true, nil
}

func (f *fakeEmployeeRepo) ActiveAdminIDs(ctx context.Context, companyID, excludeID string) ([]string, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) AreasForRole(ctx context.Context, employeeID, roleID string) ([]string, error) {
	return nil, nil
}

func TestCreateDelegation_DeactivatesOverlapping(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	companyID := uuid.NewString()
	supervisorID := uuid.NewString()
	delegateID := uuid.NewString()

	existing := delegation.Delegation{
		ID:           uuid.New(),
		CompanyID:    uuid.MustParse(companyID),
		SupervisorID: uuid.MustParse(supervisorID),
		DelegateID:   uuid.New(),
		StartDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Active:       true,
	}

	repo := mock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().
		FindOverlapping(gomock.Any(), companyID, supervisorID,
			time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)).
		Return([]delegation.Delegation{existing}, nil)
	repo.EXPECT().Deactivate(gomock.Any(), existing.ID.String()).Return(nil)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *delegation.Delegation) error {
			assert.Equal(t, supervisorID, d.SupervisorID.String())
			assert.Equal(t, delegateID, d.DelegateID.String())
			assert.True(t, d.Active)
			return nil
		})

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	svc := delegation.NewService(db, repo, &fakeEmployeeRepo{})

	resp, err := svc.Create(context.Background(), companyID, supervisorID, delegation.CreateDelegationRequest{
		SupervisorID: supervisorID,
		DelegateID:   delegateID,
		StartDate:    "2026-02-05",
		EndDate:      "2026-02-15",
	})
	require.NoError(t, err)
	assert.Equal(t, supervisorID, resp.SupervisorID)
	assert.Equal(t, "2026-02-05", resp.StartDate)
	assert.Equal(t, "2026-02-15", resp.EndDate)
	assert.True(t, resp.Active)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateDelegation_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	supervisorID := uuid.NewString()
	delegateID := uuid.NewString()
	svc := delegation.NewService(db, mock.NewMockRepository(ctrl), &fakeEmployeeRepo{})

	tests := []struct {
		name    string
		req     delegation.CreateDelegationRequest
		wantErr error
	}{
		{
			name: "end before start",
			req: delegation.CreateDelegationRequest{
				SupervisorID: supervisorID,
				DelegateID:   delegateID,
				StartDate:    "2026-02-15",
				EndDate:      "2026-02-05",
			},
			wantErr: delegationerrors.ErrInvalidDateRange,
		},
		{
			name: "self delegation",
			req: delegation.CreateDelegationRequest{
				SupervisorID: supervisorID,
				DelegateID:   supervisorID,
				StartDate:    "2026-02-05",
				EndDate:      "2026-02-15",
			},
			wantErr: delegationerrors.ErrSelfDelegation,
		},
		{
			name: "malformed supervisor id",
			req: delegation.CreateDelegationRequest{
				SupervisorID: "not-a-uuid",
				DelegateID:   delegateID,
				StartDate:    "2026-02-05",
				EndDate:      "2026-02-15",
			},
			wantErr: delegationerrors.ErrInvalidSupervisorID,
		},
		{
			name: "malformed date",
			req: delegation.CreateDelegationRequest{
				SupervisorID: supervisorID,
				DelegateID:   delegateID,
				StartDate:    "05/02/2026",
				EndDate:      "2026-02-15",
			},
			wantErr: delegationerrors.ErrInvalidDateFormat,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.NewString(), supervisorID, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateDelegation_RejectsForeignEmployee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	companyID := uuid.NewString()
	supervisorID := uuid.NewString()
	delegateID := uuid.NewString()

	repo := mock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo)

	employees := &fakeEmployeeRepo{
		belongsToCompany: func(_ context.Context, _, id string) (bool, error) {
			return id != delegateID, nil
		},
	}

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	svc := delegation.NewService(db, repo, employees)

	_, err = svc.Create(context.Background(), companyID, supervisorID, delegation.CreateDelegationRequest{
		SupervisorID: supervisorID,
		DelegateID:   delegateID,
		StartDate:    "2026-02-05",
		EndDate:      "2026-02-15",
	})
	assert.ErrorIs(t, err, delegationerrors.ErrNotInCompany)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDeactivateDelegation_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	companyID := uuid.NewString()
	id := uuid.NewString()

	repo := mock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().
		FindByIDAndCompany(gomock.Any(), companyID, id).
		Return(nil, gorm.ErrRecordNotFound)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	svc := delegation.NewService(db, repo, &fakeEmployeeRepo{})

	err = svc.Deactivate(context.Background(), companyID, id)
	assert.ErrorIs(t, err, delegationerrors.ErrDelegationNotFound)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestActingFor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	companyID := uuid.NewString()
	delegateID := uuid.NewString()
	supervisorA := uuid.NewString()
	supervisorB := uuid.NewString()

	repo := mock.NewMockRepository(ctrl)
	repo.EXPECT().
		ActiveSupervisorIDs(gomock.Any(), companyID, delegateID,
			time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC)).
		Return([]string{supervisorA, supervisorB, delegateID}, nil)

	svc := delegation.NewService(db, repo, &fakeEmployeeRepo{})

	// Clock time and zone must not leak into the lookup day.
	now := time.Date(2026, 2, 7, 18, 30, 12, 0, time.UTC)
	identities, err := svc.ActingFor(context.Background(), companyID, delegateID, now)
	require.NoError(t, err)
	assert.Equal(t, []string{delegateID, supervisorA, supervisorB}, identities)
}

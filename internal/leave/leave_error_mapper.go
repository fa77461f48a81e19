package leave

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	leaveerrors "go-leaveflow/internal/leave/errors"
)

// mapPersistError normalizes driver-level failures from writes to the
// leave_requests table. A duplicate reference means two submissions raced
// on the same counter value.
func mapPersistError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return leaveerrors.ErrReferenceConflict
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "reference") {
		return leaveerrors.ErrReferenceConflict
	}

	return err
}

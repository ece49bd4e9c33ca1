package leave

import (
	"errors"
	"strings"

	leaveerrors "go-leave/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return leaveerrors.ErrDuplicateRequest
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return leaveerrors.ErrDuplicateRequest
	}

	return err
}

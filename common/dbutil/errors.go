package dbutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/Aidin1998/calendars/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const DuplicateKeyErrorCode = "23505"

// WrapError classifies a gorm error into an application error kind.
// Constraint violations become Conflict and lost connectivity becomes
// Unavailable; both still answer 500 and only differ in logs. Everything
// else is returned unchanged and treated as internal by callers.
func WrapError(err error) error {
	var (
		pgErr      *pgconn.PgError
		connectErr *pgconn.ConnectError
		sqliteErr  sqlite3.Error
		netErr     net.Error
	)

	switch {
	case err == nil:
		return nil
	case isAppError(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.NotFound.Explain("calendar not found").Wrap(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Conflict.Explain("duplication of key").Wrap(err)
	case errors.As(err, &pgErr) && pgErr.Code == DuplicateKeyErrorCode:
		return errors.Conflict.Explain("duplication of key").Wrap(err)
	case errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey):
		return errors.Conflict.Explain("duplication of key").Wrap(err)
	case errors.As(err, &connectErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return errors.Unavailable.Explain("storage unavailable").Wrap(err)
	}

	return err
}

func isAppError(err error) bool {
	_, ok := err.(*errors.Error)
	return ok
}

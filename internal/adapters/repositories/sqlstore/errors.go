package sqlstore

import (
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"modernc.org/sqlite"

	"github.com/terratensor/altnames/internal/core/domain"
)

// sqlServerError matches mssql.Error without tying this file to the driver's
// struct layout.
type sqlServerError interface {
	SQLErrorNumber() int32
}

// wrapError converts a driver error into a *domain.DatabaseError carrying the
// vendor error code.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.DatabaseError{Op: op, Code: vendorCode(err), Err: err}
}

func vendorCode(err error) string {
	var msErr sqlServerError
	if errors.As(err, &msErr) {
		return strconv.Itoa(int(msErr.SQLErrorNumber()))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(liteErr.Code())
	}

	return ""
}

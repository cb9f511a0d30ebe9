package dbx

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation reports whether err carries a Postgres unique_violation.
// The unique index is the final arbiter for concurrent inserts of the same key.
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgerrcode.UniqueViolation)
}

// IsCheckViolation reports whether err carries a Postgres check_violation,
// e.g. a quantity constraint rejecting a negative stock level.
func IsCheckViolation(err error) bool {
	return hasCode(err, pgerrcode.CheckViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

package pgdb

import (
	"cloudport-api/internal/repo/repo_errors"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}

	return false
}

// rollback aborts tx after a failed statement and maps err the way a single
// statement would be mapped.
func rollback(tx *sql.Tx, err error) error {
	if e := tx.Rollback(); e != nil {
		return errors.Join(err, e)
	}
	if isUniqueViolation(err) {
		return repo_errors.ErrAlreadyExists
	}

	return err
}

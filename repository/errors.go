package repository

import (
	"database/sql"
	"errors"
	"github.com/go-sql-driver/mysql"
)

const mysqlErrDuplicateEntry = 1062

// ErrNotFound when the requested row does not exist
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicated when a unique key is violated
var ErrDuplicated = errors.New("repository: duplicated")

// IsDuplicateEntry checks for MySQL unique constraint violation
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == mysqlErrDuplicateEntry
}

func translateNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isAffected relies on clientFoundRows=true so that matched rows are counted even when unchanged
func isAffected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package sqlite

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"tracker/internal/models"
)

// translate maps driver failures onto the repository error kinds.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch {
		case se.ExtendedCode == sqlite3.ErrConstraintUnique, se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", models.ErrDuplicateKey, err)
		case se.Code == sqlite3.ErrBusy, se.Code == sqlite3.ErrLocked,
			se.Code == sqlite3.ErrCantOpen, se.Code == sqlite3.ErrIoErr,
			se.Code == sqlite3.ErrNotADB:
			return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
		}
		return err
	}

	// database/sql does not export the error it returns after Close.
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) ||
		strings.Contains(err.Error(), "sql: database is closed") {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return err
}

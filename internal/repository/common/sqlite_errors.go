package common

import (
	"database/sql"
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	apperrors "github.com/Taichi-iskw/yt-notes/internal/errors"
)

// HandleSQLiteError converts SQLite errors to AppError codes
func HandleSQLiteError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.Wrap(err, apperrors.CodeNotFound, operation)
	}

	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return apperrors.Wrap(err, apperrors.CodeConflict, "resource already exists")
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "data violates check constraint")
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return apperrors.Wrap(err, apperrors.CodeUnavailable, "database is locked")
	}

	// Extended codes disabled: fall back to the message
	if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return apperrors.Wrap(err, apperrors.CodeConflict, "resource already exists")
		case strings.Contains(msg, "NOT NULL"):
			return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")
		case strings.Contains(msg, "CHECK"):
			return apperrors.Wrap(err, apperrors.CodeInvalidArg, "data violates check constraint")
		}
	}
	return apperrors.Wrap(err, apperrors.CodeInternal, operation)
}

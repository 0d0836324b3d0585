package errors

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps database errors to AppError instances.
//   - sql.ErrNoRows / pgx.ErrNoRows → NotFound
//   - undefined table → Internal with a hint to run migrations
//   - unique violations → Conflict
//   - NOT NULL / CHECK violations → Validation
//   - context timeouts/cancellations → Timeout/Canceled
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "database request timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "database request was canceled", Cause: err}
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UndefinedTable:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "table " + pgErr.TableName + " is missing; run migrations",
			Cause:   pgErr,
		}
	case pgerrcode.UniqueViolation:
		return &AppError{Code: ErrCodeConflict, Message: "value already exists", Field: pgErr.ColumnName, Cause: pgErr}
	case pgerrcode.NotNullViolation, pgerrcode.CheckViolation:
		return &AppError{Code: ErrCodeValidation, Message: "invalid data", Field: pgErr.ColumnName, Cause: pgErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "a database error occurred", Cause: pgErr}
	}
}

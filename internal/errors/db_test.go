package errors

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeCanceled},
		{name: "sql no rows", err: sql.ErrNoRows, wantCode: ErrCodeNotFound},
		{name: "pgx no rows", err: pgx.ErrNoRows, wantCode: ErrCodeNotFound},
		{
			name:     "unique violation",
			err:      &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "client_scope"},
			wantCode: ErrCodeConflict,
		},
		{
			name:     "not null violation",
			err:      &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "access_token"},
			wantCode: ErrCodeValidation,
		},
		{
			name:     "other pg error",
			err:      &pgconn.PgError{Code: pgerrcode.DeadlockDetected},
			wantCode: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapDBError(tt.err)
			if GetCode(got) != tt.wantCode {
				t.Fatalf("MapDBError(%v) code = %q, want %q", tt.err, GetCode(got), tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Fatalf("cause not preserved for %v", tt.err)
			}
		})
	}
}

func TestMapDBError_UndefinedTableHintsMigrations(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.UndefinedTable, TableName: "dashboard_sessions"})
	if !strings.Contains(err.Error(), "run migrations") {
		t.Fatalf("expected migration hint, got %q", err.Error())
	}
}

func TestMapDBError_PassesThroughUnknown(t *testing.T) {
	plain := errors.New("network down")
	if got := MapDBError(plain); !errors.Is(got, plain) || GetCode(got) != "" {
		t.Fatalf("expected passthrough, got %v", got)
	}
}

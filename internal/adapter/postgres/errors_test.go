package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	if got := MapError(nil, "insert school"); got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapError_Unreachable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "schools" does not exist`}},
		{"invalid catalog", &pgconn.PgError{Code: "3D000", Message: `database "x" does not exist`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tt.err, "check table")
			if !errors.Is(got, domain.ErrTableUnreachable) {
				t.Errorf("MapError(%v) = %v, want ErrTableUnreachable", tt.err, got)
			}
			if errors.Is(got, domain.ErrStoreWrite) {
				t.Errorf("MapError(%v) must not be ErrStoreWrite", tt.err)
			}
		})
	}
}

func TestMapError_StoreWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"not null violation", &pgconn.PgError{Code: "23502", Message: "null value in column"}},
		{"check violation", &pgconn.PgError{Code: "23514", Message: "violates check constraint"}},
		{"string too long", &pgconn.PgError{Code: "22001", Message: "value too long"}},
		{"plain error", errors.New("boom")},
		{"connection failure", &pgconn.PgError{Code: "08006", Message: "connection failure"}},
		{"net op error", &net.OpError{Op: "write", Net: "tcp", Err: errors.New("broken pipe")}},
		{"unexpected eof", fmt.Errorf("read message: %w", io.ErrUnexpectedEOF)},
		{"closed connection", fmt.Errorf("read: %w", net.ErrClosed)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tt.err, "insert school")
			if !errors.Is(got, domain.ErrStoreWrite) {
				t.Errorf("MapError(%v) = %v, want ErrStoreWrite", tt.err, got)
			}
			if errors.Is(got, domain.ErrTableUnreachable) {
				t.Errorf("MapError(%v) must not be ErrTableUnreachable", tt.err)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("MapError(%v) lost the original error", tt.err)
			}
		})
	}
}

func TestMapError_KeepsPgErrorMessage(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23502", Message: "null value in column \"name\""}
	got := MapError(pgErr, "insert association")

	var target *pgconn.PgError
	if !errors.As(got, &target) {
		t.Fatalf("errors.As(*pgconn.PgError) = false for %v", got)
	}
	if target.Message != pgErr.Message {
		t.Errorf("message = %q, want %q", target.Message, pgErr.Message)
	}
}

func TestMapError_ContextPassThrough(t *testing.T) {
	t.Parallel()

	for _, ctxErr := range []error{context.Canceled, context.DeadlineExceeded} {
		got := MapError(ctxErr, "insert school")
		if !errors.Is(got, ctxErr) {
			t.Errorf("MapError(%v) = %v, want wrapped context error", ctxErr, got)
		}
		if errors.Is(got, domain.ErrStoreWrite) || errors.Is(got, domain.ErrTableUnreachable) {
			t.Errorf("MapError(%v) must not map context errors", ctxErr)
		}
	}
}

func TestIsConnectionLost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"net op error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"unexpected eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), true},
		{"closed connection", net.ErrClosed, true},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"not null violation", &pgconn.PgError{Code: "23502"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isConnectionLost(tt.err); got != tt.want {
				t.Errorf("isConnectionLost(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

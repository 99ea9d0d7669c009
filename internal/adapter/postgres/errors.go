package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors.
// A missing table or database becomes domain.ErrTableUnreachable; every other
// failure, a dropped connection included, becomes domain.ErrStoreWrite.
// context.DeadlineExceeded and context.Canceled are NOT mapped, they pass through.
// The original error stays in the chain for errors.As.
func MapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if isMissingRelation(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTableUnreachable, err)
	}

	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreWrite, err)
}

func isMissingRelation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "42P01" || // undefined_table
		pgErr.Code == "3D000" // invalid_catalog_name
}

// isConnectionLost reports whether err means the server could not be reached
// or the connection broke.
func isConnectionLost(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") // connection_exception class
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed)
}

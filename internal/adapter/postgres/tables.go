package postgres

import (
	"context"
	"fmt"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Table names the importer writes to.
const (
	TableSchools      = "schools"
	TableAssociations = "associations"
)

// TableChecker verifies that a required table exists before a file is processed.
type TableChecker struct {
	q Querier
}

// NewTableChecker creates a new TableChecker.
func NewTableChecker(q Querier) *TableChecker {
	return &TableChecker{q: q}
}

// CheckTable returns domain.ErrTableUnreachable when the table is missing or
// the connection cannot answer.
func (c *TableChecker) CheckTable(ctx context.Context, table string) error {
	var exists bool
	err := QuerierFromCtx(ctx, c.q).
		QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).
		Scan(&exists)
	if err != nil {
		if isConnectionLost(err) {
			return fmt.Errorf("check table %s: %w: %w", table, domain.ErrTableUnreachable, err)
		}
		return MapError(err, "check table "+table)
	}
	if !exists {
		return fmt.Errorf("check table %s: %w", table, domain.ErrTableUnreachable)
	}
	return nil
}

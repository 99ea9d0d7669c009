// Package stats runs the read-only aggregate queries shown in the final
// import report.
package stats

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/membership-backend/internal/adapter/postgres"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Repo reads aggregates from the schools and associations tables.
type Repo struct {
	q postgres.Querier
}

// New creates a new stats repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// Aggregates collects every count the report renders.
func (r *Repo) Aggregates(ctx context.Context) (domain.Aggregates, error) {
	var (
		agg domain.Aggregates
		err error
	)

	if agg.SchoolsByType, err = r.groupCount(ctx, postgres.TableSchools, "school_type"); err != nil {
		return domain.Aggregates{}, err
	}
	if agg.SchoolsByProvince, err = r.groupCount(ctx, postgres.TableSchools, "province"); err != nil {
		return domain.Aggregates{}, err
	}
	if agg.AssociationsTotal, err = r.total(ctx, postgres.TableAssociations); err != nil {
		return domain.Aggregates{}, err
	}
	if agg.AssociationsByProvince, err = r.groupCount(ctx, postgres.TableAssociations, "province"); err != nil {
		return domain.Aggregates{}, err
	}

	return agg, nil
}

// groupCount returns row counts of table grouped by column, largest first.
// Ties are ordered by label so output is stable.
func (r *Repo) groupCount(ctx context.Context, table, column string) ([]domain.GroupCount, error) {
	query, args, err := groupCountQuery(table, column).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s by %s: %w", table, column, err)
	}

	var out []domain.GroupCount
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.q), &out, query, args...); err != nil {
		return nil, postgres.MapError(err, fmt.Sprintf("count %s by %s", table, column))
	}
	if out == nil {
		out = []domain.GroupCount{}
	}
	return out, nil
}

func (r *Repo) total(ctx context.Context, table string) (int64, error) {
	query, args, err := postgres.Builder().Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s total: %w", table, err)
	}

	var n int64
	if err := postgres.QuerierFromCtx(ctx, r.q).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "count "+table)
	}
	return n, nil
}

func groupCountQuery(table, column string) sq.SelectBuilder {
	return postgres.Builder().
		Select(column+" AS label", "COUNT(*) AS total").
		From(table).
		GroupBy(column).
		OrderBy("total DESC", "label ASC")
}

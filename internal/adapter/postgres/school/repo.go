// Package school implements the existing-record index and writer for the
// schools table.
package school

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/membership-backend/internal/adapter/postgres"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Repo provides school persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new school repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// ExistsSchool reports whether a school matching key is already stored.
// Within key.Type a row matches on institution code (only when the key has
// one) or on province, district (NULL compared as empty) and name.
func (r *Repo) ExistsSchool(ctx context.Context, key domain.SchoolKey) (bool, error) {
	query, args, err := existsQuery(key).ToSql()
	if err != nil {
		return false, fmt.Errorf("build school lookup: %w", err)
	}

	var one int
	err = postgres.QuerierFromCtx(ctx, r.q).QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, postgres.MapError(err, "lookup school")
	}
	return true, nil
}

// InsertSchool writes one school row. Nil optional fields are stored as NULL.
func (r *Repo) InsertSchool(ctx context.Context, s domain.School) error {
	query, args, err := postgres.Builder().
		Insert(postgres.TableSchools).
		Columns("province", "district", "institution_code", "name", "school_type").
		Values(s.Province, s.District, s.InstitutionCode, s.Name, s.Type.String()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build school insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "insert school")
	}
	return nil
}

// existsQuery binds arguments in the order school_type, [institution_code],
// province, district, name.
func existsQuery(key domain.SchoolKey) sq.SelectBuilder {
	composite := sq.And{
		sq.Eq{"province": key.Province},
		sq.Expr("COALESCE(district, '') = ?", key.District),
		sq.Eq{"name": key.Name},
	}

	var match sq.Sqlizer = composite
	if key.InstitutionCode != "" {
		match = sq.Or{sq.Eq{"institution_code": key.InstitutionCode}, composite}
	}

	return postgres.Builder().
		Select("1").
		From(postgres.TableSchools).
		Where(sq.Eq{"school_type": key.Type.String()}).
		Where(match).
		Limit(1)
}

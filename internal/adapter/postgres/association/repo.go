// Package association implements the writer for the associations table.
// The table is always fully replaced: purge, sequence reset, then inserts.
package association

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/membership-backend/internal/adapter/postgres"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

// TxRunner runs fn inside one transaction. *postgres.TxManager satisfies it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo provides association persistence backed by PostgreSQL.
type Repo struct {
	q  postgres.Querier
	tx TxRunner
}

// New creates a new association repository.
func New(q postgres.Querier, tx TxRunner) *Repo {
	return &Repo{q: q, tx: tx}
}

const resetSequenceSQL = `SELECT setval(pg_get_serial_sequence('associations', 'id'), 1, false)`

// insertColumns lists every associations column the importer writes.
// Columns after district have no source data and are always NULL.
var insertColumns = []string{
	"name", "chairperson", "phone", "province", "district",
	"logo", "founding_date", "social_media", "email", "admin_user_id",
	"latitude", "longitude", "address",
}

var null = sq.Expr("NULL")

// InsertAssociation writes one association row.
func (r *Repo) InsertAssociation(ctx context.Context, a domain.Association) error {
	query, args, err := postgres.Builder().
		Insert(postgres.TableAssociations).
		Columns(insertColumns...).
		Values(
			a.Name, a.Chairperson, a.Phone, a.Province, a.District,
			null, null, null, null, null,
			null, null, null,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build association insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "insert association")
	}
	return nil
}

// PurgeAssociations deletes every association and returns the number removed.
func (r *Repo) PurgeAssociations(ctx context.Context) (int64, error) {
	query, args, err := postgres.Builder().Delete(postgres.TableAssociations).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build association purge: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "purge associations")
	}
	return tag.RowsAffected(), nil
}

// ResetAssociationSequence makes the next inserted association get id 1.
func (r *Repo) ResetAssociationSequence(ctx context.Context) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, resetSequenceSQL); err != nil {
		return postgres.MapError(err, "reset association sequence")
	}
	return nil
}

// ReplaceAll purges the table and resets its sequence in one transaction.
// Either both happen or neither does.
func (r *Repo) ReplaceAll(ctx context.Context) (int64, error) {
	var purged int64
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := r.PurgeAssociations(ctx)
		if err != nil {
			return err
		}
		if err := r.ResetAssociationSequence(ctx); err != nil {
			return err
		}
		purged = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

// Package store bundles the PostgreSQL repositories an import run needs
// behind one value, all sharing a single connection.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/membership-backend/internal/adapter/postgres"
	"github.com/heartmarshall/membership-backend/internal/adapter/postgres/association"
	"github.com/heartmarshall/membership-backend/internal/adapter/postgres/school"
	"github.com/heartmarshall/membership-backend/internal/adapter/postgres/stats"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Store exposes existence checks, writes and aggregates over one connection.
type Store struct {
	tables       *postgres.TableChecker
	schools      *school.Repo
	associations *association.Repo
	stats        *stats.Repo
}

// New wires every repository to conn.
func New(conn *pgx.Conn) *Store {
	return &Store{
		tables:       postgres.NewTableChecker(conn),
		schools:      school.New(conn),
		associations: association.New(conn, postgres.NewTxManager(conn)),
		stats:        stats.New(conn),
	}
}

// TableFor returns the table a dataset is written to.
func TableFor(kind domain.DatasetKind) string {
	if kind == domain.DatasetAssociations {
		return postgres.TableAssociations
	}
	return postgres.TableSchools
}

func (s *Store) CheckTable(ctx context.Context, kind domain.DatasetKind) error {
	return s.tables.CheckTable(ctx, TableFor(kind))
}

func (s *Store) ExistsSchool(ctx context.Context, key domain.SchoolKey) (bool, error) {
	return s.schools.ExistsSchool(ctx, key)
}

func (s *Store) InsertSchool(ctx context.Context, sc domain.School) error {
	return s.schools.InsertSchool(ctx, sc)
}

func (s *Store) InsertAssociation(ctx context.Context, a domain.Association) error {
	return s.associations.InsertAssociation(ctx, a)
}

func (s *Store) ReplaceAssociations(ctx context.Context) (int64, error) {
	return s.associations.ReplaceAll(ctx)
}

func (s *Store) Aggregates(ctx context.Context) (domain.Aggregates, error) {
	return s.stats.Aggregates(ctx)
}

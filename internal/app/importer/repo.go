// Package importer drives bulk imports of the school and association
// spreadsheets: read, normalize, resolve duplicates, write, report.
package importer

import (
	"context"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Store is the storage contract consumed by the pipeline.
// All methods use only domain types, no adapter imports.
// Implemented by store.Store.
type Store interface {
	// CheckTable returns domain.ErrTableUnreachable when the dataset's table
	// cannot be used.
	CheckTable(ctx context.Context, kind domain.DatasetKind) error

	// Existing-record index for the incremental strategy.
	ExistsSchool(ctx context.Context, key domain.SchoolKey) (bool, error)
	InsertSchool(ctx context.Context, s domain.School) error

	// Full-replace strategy: purge plus sequence reset in one transaction,
	// then unconditional inserts.
	ReplaceAssociations(ctx context.Context) (int64, error)
	InsertAssociation(ctx context.Context, a domain.Association) error

	// Read-only aggregates for the final report.
	Aggregates(ctx context.Context) (domain.Aggregates, error)
}

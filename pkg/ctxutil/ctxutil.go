package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	runIDKey   ctxKey = "run_id"
	datasetKey ctxKey = "dataset"
)

// WithRunID stores the import run ID in the context.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the import run ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func RunIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithDataset stores the dataset currently being imported in the context.
func WithDataset(ctx context.Context, dataset string) context.Context {
	return context.WithValue(ctx, datasetKey, dataset)
}

// DatasetFromCtx extracts the dataset name from the context.
// Returns an empty string if absent.
func DatasetFromCtx(ctx context.Context) string {
	ds, _ := ctx.Value(datasetKey).(string)
	return ds
}

package importer_test

import (
	"github.com/heartmarshall/membership-backend/internal/adapter/postgres/store"
	"github.com/heartmarshall/membership-backend/internal/app/importer"
)

// Compile-time check: *store.Store must satisfy importer.Store.
var _ importer.Store = (*store.Store)(nil)

package repository

import (
	"context"
	"fmt"

	"github.com/yash031299/ReviewApplication-sub000/internal/repository/memory"
	"github.com/yash031299/ReviewApplication-sub000/internal/repository/postgres"
	"github.com/yash031299/ReviewApplication-sub000/pkg/database"
)

// Supported backend selectors.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// New selects the review store backend once at startup. The memory backend
// needs no connection; the postgres backend needs a reachable pool and
// creates its table on construction.
func New(ctx context.Context, backend string, db database.DBTX) (ReviewStore, error) {
	switch backend {
	case BackendMemory:
		return memory.NewStore(), nil
	case BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres backend requires a database connection")
		}
		return postgres.NewStore(ctx, db)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// Package vector constructs the configured vector index backend.
package vector

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/wikivec-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/wikivec-cli/internal/adapters/driven/vector/s3vectors"
	"github.com/custodia-labs/wikivec-cli/internal/adapters/driven/vector/sqlite"
	"github.com/custodia-labs/wikivec-cli/internal/config"
	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
)

// pingTimeout bounds the reachability probe in NewValidated.
const pingTimeout = 5 * time.Second

// New creates a vector index for the configured backend.
func New(ctx context.Context, cfg config.Config) (driven.VectorIndex, error) {
	switch cfg.VectorBackend {
	case config.BackendS3Vectors:
		return s3vectors.NewIndex(ctx, s3vectors.Config{
			Bucket: cfg.BucketName,
			Index:  cfg.IndexName,
			Region: cfg.AWSRegion,
		})
	case config.BackendSQLite:
		return sqlite.NewIndex(cfg.SQLitePath)
	case config.BackendMemory:
		return memory.NewIndex(), nil
	default:
		return nil, fmt.Errorf("%w: vector backend %q", domain.ErrUnsupportedType, cfg.VectorBackend)
	}
}

// NewValidated creates a vector index and verifies it is reachable
// before handing it out. The index is closed if the probe fails.
func NewValidated(ctx context.Context, cfg config.Config) (driven.VectorIndex, error) {
	index, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := index.Ping(pingCtx); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	return index, nil
}

// Package app contains application services and port definitions for the pool context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-quoter/business/pool/domain"
)

// Directory loads pool descriptors from chain.
type Directory interface {
	// Load reads the immutable pool metadata and both tokens' metadata.
	Load(ctx context.Context, poolAddress common.Address) (*domain.Pool, error)

	// State reads the live liquidity position (slot0 + liquidity).
	State(ctx context.Context, pool *domain.Pool) (*domain.State, error)
}

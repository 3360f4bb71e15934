package app

import (
	"context"

	"github.com/fd1az/pool-quoter/business/pool/domain"
	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/asset"
	"github.com/fd1az/pool-quoter/internal/logger"
)

// Snapshot is a pool descriptor together with its live state.
type Snapshot struct {
	Pool  *domain.Pool
	State *domain.State
}

// PoolService resolves pool descriptors and snapshots for callers.
type PoolService struct {
	directory Directory
	logger    logger.LoggerInterface
}

// NewPoolService creates a new PoolService.
func NewPoolService(directory Directory, log logger.LoggerInterface) *PoolService {
	return &PoolService{
		directory: directory,
		logger:    log,
	}
}

// Describe loads the pool at address (hex string).
func (s *PoolService) Describe(ctx context.Context, address string) (*domain.Pool, error) {
	addr, err := asset.ParseAddress(address)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidPool, apperror.WithCause(err), apperror.WithContext(address))
	}
	return s.directory.Load(ctx, addr)
}

// Snapshot loads the pool and its current state. A state read failure is
// returned as an error; the descriptor alone is available through Describe.
func (s *PoolService) Snapshot(ctx context.Context, address string) (*Snapshot, error) {
	pool, err := s.Describe(ctx, address)
	if err != nil {
		return nil, err
	}

	state, err := s.directory.State(ctx, pool)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "pool snapshot",
		"pool", pool.Address.Hex(),
		"pair", pool.String(),
		"block", state.BlockNumber,
		"tick", state.Tick,
	)

	return &Snapshot{Pool: pool, State: state}, nil
}

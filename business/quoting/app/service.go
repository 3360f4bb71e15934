package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-quoter/business/quoting/domain"
	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/asset"
	"github.com/fd1az/pool-quoter/internal/cache"
	"github.com/fd1az/pool-quoter/internal/logger"
)

// ServiceOptions tune the QuotingService.
type ServiceOptions struct {
	EngineCacheSize   int
	SignificantDigits int32
}

// QuotingService keeps one Engine per pool and routes quotes to it.
// Engines hold immutable pool metadata only; quotes are never cached.
type QuotingService struct {
	directory PoolDirectory
	quoter    Quoter
	engines   *cache.Cache[common.Address, *Engine]
	digits    int32
	logger    logger.LoggerInterface
}

// NewQuotingService creates a new QuotingService.
func NewQuotingService(directory PoolDirectory, quoter Quoter, log logger.LoggerInterface, opts ServiceOptions) *QuotingService {
	return &QuotingService{
		directory: directory,
		quoter:    quoter,
		engines:   cache.New[common.Address, *Engine](0, cache.WithSize(opts.EngineCacheSize)),
		digits:    opts.SignificantDigits,
		logger:    log,
	}
}

// Engine returns the engine for the pool, building it on first use.
// Build failures are returned and not remembered.
func (s *QuotingService) Engine(ctx context.Context, poolAddress string) (*Engine, error) {
	addr, err := asset.ParseAddress(poolAddress)
	if err != nil {
		return nil, apperror.New(apperror.CodePoolInitFailed,
			apperror.WithCause(err), apperror.WithContext(poolAddress))
	}

	return s.engines.GetOrLoad(addr, func() (*Engine, error) {
		return NewEngine(ctx, s.directory, s.quoter, addr.Hex(), s.logger, WithSignificantDigits(s.digits))
	})
}

// Quote computes a quote for amount of tokenIn through the pool.
func (s *QuotingService) Quote(ctx context.Context, poolAddress, tokenIn, amount string) (*domain.Quote, error) {
	engine, err := s.Engine(ctx, poolAddress)
	if err != nil {
		return nil, err
	}
	return engine.ComputeAmountOut(ctx, tokenIn, amount)
}

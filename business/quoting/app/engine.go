package app

import (
	"context"
	"errors"
	"math/big"

	pooldomain "github.com/fd1az/pool-quoter/business/pool/domain"
	"github.com/fd1az/pool-quoter/business/quoting/domain"
	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/asset"
	"github.com/fd1az/pool-quoter/internal/logger"
)

// Engine quotes swaps through a single pool.
// It is immutable once built and safe for concurrent use.
type Engine struct {
	pool      *pooldomain.Pool
	directory PoolDirectory
	quoter    Quoter
	digits    int32
	logger    logger.LoggerInterface
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSignificantDigits sets the precision of Price and Qty.
func WithSignificantDigits(digits int32) EngineOption {
	return func(e *Engine) {
		if digits > 0 {
			e.digits = digits
		}
	}
}

// NewEngine loads the pool at poolAddress and returns a ready engine.
// Any failure is a POOL_INIT_FAILED error and no engine is returned.
func NewEngine(ctx context.Context, directory PoolDirectory, quoter Quoter, poolAddress string, log logger.LoggerInterface, opts ...EngineOption) (*Engine, error) {
	addr, err := asset.ParseAddress(poolAddress)
	if err != nil {
		return nil, apperror.New(apperror.CodePoolInitFailed,
			apperror.WithCause(err), apperror.WithContext(poolAddress))
	}

	pool, err := directory.Load(ctx, addr)
	if err != nil {
		return nil, apperror.New(apperror.CodePoolInitFailed,
			apperror.WithCause(err), apperror.WithContext(addr.Hex()))
	}

	e := &Engine{
		pool:      pool,
		directory: directory,
		quoter:    quoter,
		digits:    domain.DefaultSignificantDigits,
		logger:    log,
	}
	for _, opt := range opts {
		opt(e)
	}

	log.Info(ctx, "quote engine ready",
		"pool", pool.Address.Hex(),
		"pair", pool.String(),
		"token_a", pool.TokenA.Address().Hex(),
		"token_b", pool.TokenB.Address().Hex(),
	)

	return e, nil
}

// ComputeAmountOut quotes swapping amount (a decimal string in human units)
// of tokenIn through the pool.
func (e *Engine) ComputeAmountOut(ctx context.Context, tokenIn, amount string) (*domain.Quote, error) {
	dir, err := domain.ResolveDirection(e.pool, tokenIn)
	if err != nil {
		return nil, err
	}

	amountIn, err := asset.ParseString(dir.In, amount)
	if err != nil {
		if errors.Is(err, asset.ErrTooManyDecimals) {
			return nil, apperror.New(apperror.CodeAmountPrecision,
				apperror.WithCause(err),
				apperror.WithContextf("%s accepts at most %d decimals, got %q", dir.In.Symbol(), dir.In.Decimals(), amount))
		}
		return nil, apperror.New(apperror.CodeInvalidAmount,
			apperror.WithCause(err), apperror.WithContextf("%q", amount))
	}
	if amountIn.IsZero() {
		return nil, apperror.New(apperror.CodeInvalidAmount,
			apperror.WithContextf("amount must be positive, got %q", amount))
	}

	raw, err := e.quoter.QuoteExactInputSingle(ctx,
		dir.In.Address(), dir.Out.Address(), uint32(e.pool.Fee), amountIn.Raw(), big.NewInt(0))
	if err != nil {
		return nil, apperror.New(apperror.CodeQuoteUnavailable,
			apperror.WithCause(err),
			apperror.WithContextf("pool=%s %s amount_in=%s", e.pool.Address.Hex(), dir, amountIn.Raw()))
	}
	if raw == nil || raw.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeQuoteUnavailable,
			apperror.WithCause(domain.ErrEmptyOutput),
			apperror.WithContextf("pool=%s %s amount_in=%s: insufficient liquidity", e.pool.Address.Hex(), dir, amountIn.Raw()))
	}

	quote, err := domain.NewQuote(e.pool, amountIn, asset.NewAmount(dir.Out, raw), e.digits)
	if err != nil {
		return nil, apperror.New(apperror.CodeQuoteUnavailable, apperror.WithCause(err))
	}

	e.logger.Debug(ctx, "quote computed",
		"pool", e.pool.Address.Hex(),
		"direction", dir.String(),
		"amount_in", amountIn.Raw().String(),
		"amount_out", raw.String(),
		"qty", quote.Qty.String(),
		"price", quote.Price.String(),
	)

	return quote, nil
}

// Pool returns the pool descriptor.
func (e *Engine) Pool() *pooldomain.Pool {
	return e.pool
}

// TokenA returns the pool's token0.
func (e *Engine) TokenA() *asset.Asset {
	return e.pool.TokenA
}

// TokenB returns the pool's token1.
func (e *Engine) TokenB() *asset.Asset {
	return e.pool.TokenB
}

// LPState reads the pool's current liquidity position.
func (e *Engine) LPState(ctx context.Context) (*pooldomain.State, error) {
	return e.directory.State(ctx, e.pool)
}

// Package app contains application services and port definitions for the quoting context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	poolapp "github.com/fd1az/pool-quoter/business/pool/app"
)

// Quoter is the typed binding to the on-chain Uniswap V3 Quoter.
type Quoter interface {
	// QuoteExactInputSingle returns the output amount for an exact input swap
	// through the pool identified by (tokenIn, tokenOut, fee).
	// sqrtPriceLimitX96 = 0 means no price limit.
	QuoteExactInputSingle(ctx context.Context, tokenIn, tokenOut common.Address, fee uint32, amountIn, sqrtPriceLimitX96 *big.Int) (*big.Int, error)
}

// PoolDirectory is the pool context's Directory as seen from quoting.
type PoolDirectory = poolapp.Directory

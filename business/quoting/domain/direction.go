// Package domain contains the core domain types for the quoting context.
package domain

import (
	pooldomain "github.com/fd1az/pool-quoter/business/pool/domain"
	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/asset"
)

// Direction is the swap direction through a pool.
type Direction struct {
	In  *asset.Asset
	Out *asset.Asset
}

// ResolveDirection maps the input token address to (In, Out) for the pool.
// The address comparison is case-insensitive. An address that is not one of
// the pool's legs is an INVALID_TOKEN error; there is no default pair.
func ResolveDirection(pool *pooldomain.Pool, tokenIn string) (Direction, error) {
	addr, err := asset.ParseAddress(tokenIn)
	if err != nil {
		return Direction{}, apperror.New(apperror.CodeInvalidToken,
			apperror.WithCause(err), apperror.WithContext(tokenIn))
	}

	idx, err := pool.LegIndex(addr)
	if err != nil {
		return Direction{}, err
	}

	return Direction{
		In:  pool.Leg(idx),
		Out: pool.Other(idx),
	}, nil
}

// String returns the direction symbol (e.g., "WETH->USDC").
func (d Direction) String() string {
	return d.In.Symbol() + "->" + d.Out.Symbol()
}

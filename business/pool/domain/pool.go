// Package domain contains the core domain types for the pool context.
package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/asset"
)

// FeeTier is the pool fee in hundredths of a bip.
type FeeTier uint32

// Fee tiers in Uniswap V3
const (
	FeeTier001 FeeTier = 100   // 0.01%
	FeeTier005 FeeTier = 500   // 0.05%
	FeeTier030 FeeTier = 3000  // 0.30%
	FeeTier100 FeeTier = 10000 // 1.00%
)

// ParseFeeTier validates a raw on-chain fee.
func ParseFeeTier(fee uint32) (FeeTier, error) {
	switch f := FeeTier(fee); f {
	case FeeTier001, FeeTier005, FeeTier030, FeeTier100:
		return f, nil
	default:
		return 0, apperror.New(apperror.CodeInvalidFeeTier, apperror.WithContextf("fee=%d", fee))
	}
}

// Percent returns the fee as a percentage string (e.g., "0.30%").
func (f FeeTier) Percent() string {
	return fmt.Sprintf("%.2f%%", float64(f)/10000)
}

// Pool is an immutable Uniswap V3 pool descriptor.
// TokenA is the pool's token0, TokenB its token1.
type Pool struct {
	Address     common.Address
	TokenA      *asset.Asset
	TokenB      *asset.Asset
	Fee         FeeTier
	TickSpacing int32
}

// NewPool validates and builds a Pool.
func NewPool(address common.Address, tokenA, tokenB *asset.Asset, fee FeeTier, tickSpacing int32) (*Pool, error) {
	if address == (common.Address{}) {
		return nil, apperror.New(apperror.CodeInvalidPool, apperror.WithContext("zero pool address"))
	}
	if tokenA == nil || tokenB == nil {
		return nil, apperror.New(apperror.CodeInvalidPool, apperror.WithContextf("pool %s: missing token", address.Hex()))
	}
	if tokenA.Address() == tokenB.Address() {
		return nil, apperror.New(apperror.CodeInvalidPool,
			apperror.WithContextf("pool %s: token0 and token1 are both %s", address.Hex(), tokenA.Address().Hex()))
	}
	if _, err := ParseFeeTier(uint32(fee)); err != nil {
		return nil, err
	}

	return &Pool{
		Address:     address,
		TokenA:      tokenA,
		TokenB:      tokenB,
		Fee:         fee,
		TickSpacing: tickSpacing,
	}, nil
}

// LegIndex returns 0 when addr is TokenA and 1 when it is TokenB.
func (p *Pool) LegIndex(addr common.Address) (int, error) {
	switch addr {
	case p.TokenA.Address():
		return 0, nil
	case p.TokenB.Address():
		return 1, nil
	default:
		return -1, apperror.New(apperror.CodeInvalidToken,
			apperror.WithContextf("token %s is not in pool %s", addr.Hex(), p.Address.Hex()))
	}
}

// Token returns the pool leg with the given address.
func (p *Pool) Token(addr common.Address) (*asset.Asset, error) {
	idx, err := p.LegIndex(addr)
	if err != nil {
		return nil, err
	}
	return p.Leg(idx), nil
}

// Leg returns TokenA for 0 and TokenB otherwise.
func (p *Pool) Leg(idx int) *asset.Asset {
	if idx == 0 {
		return p.TokenA
	}
	return p.TokenB
}

// Other returns the leg opposite to idx.
func (p *Pool) Other(idx int) *asset.Asset {
	return p.Leg(1 - idx)
}

// String returns the pair symbol with fee (e.g., "USDC/WETH 0.05%").
func (p *Pool) String() string {
	return p.TokenA.Symbol() + "/" + p.TokenB.Symbol() + " " + p.Fee.Percent()
}

// State is a transient snapshot of the pool's liquidity position.
type State struct {
	SqrtPriceX96 *big.Int
	Tick         int32
	Liquidity    *big.Int
	BlockNumber  uint64
}

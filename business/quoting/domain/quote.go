package domain

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	pooldomain "github.com/fd1az/pool-quoter/business/pool/domain"
	"github.com/fd1az/pool-quoter/internal/asset"
)

// DefaultSignificantDigits bounds the precision of Price and Qty.
const DefaultSignificantDigits = 12

// ErrEmptyOutput is returned when the pool would give nothing back.
var ErrEmptyOutput = errors.New("quoting: zero output amount")

// Quote is the result of quoting one exact-input swap.
// AmountIn and AmountOut are exact base units; Qty and Price are
// human-scale values rounded to a bounded number of significant digits.
type Quote struct {
	Pool      common.Address
	Fee       pooldomain.FeeTier
	AmountIn  asset.Amount
	AmountOut asset.Amount
	Qty       decimal.Decimal // output tokens received
	Price     decimal.Decimal // input tokens paid per output token
	Timestamp time.Time
}

// NewQuote derives Qty and Price from the exact legs.
func NewQuote(pool *pooldomain.Pool, amountIn, amountOut asset.Amount, digits int32) (*Quote, error) {
	if !amountOut.IsPositive() {
		return nil, ErrEmptyOutput
	}
	if digits <= 0 {
		digits = DefaultSignificantDigits
	}

	qty := amountOut.ToSignificant(digits)
	price := asset.DivSignificant(amountIn.ToDecimal(), qty, digits)

	return &Quote{
		Pool:      pool.Address,
		Fee:       pool.Fee,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		Qty:       qty,
		Price:     price,
		Timestamp: time.Now(),
	}, nil
}

// PriceQty is the caller-facing pair of numbers.
type PriceQty struct {
	Price float64
	Qty   float64
}

// PriceQty converts the quote for display.
// WARNING: float64 is lossy. Use Price/Qty or the raw amounts for calculations.
func (q *Quote) PriceQty() PriceQty {
	price, _ := q.Price.Float64()
	qty, _ := q.Qty.Float64()
	return PriceQty{Price: price, Qty: qty}
}

// Rate returns output tokens received per input token.
func (q *Quote) Rate(digits int32) decimal.Decimal {
	return asset.DivSignificant(q.Qty, q.AmountIn.ToDecimal(), digits)
}

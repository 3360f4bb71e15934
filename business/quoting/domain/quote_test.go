package domain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/pool-quoter/internal/asset"
)

func TestNewQuote(t *testing.T) {
	pool := testPool(t)

	in, err := asset.ParseString(tokenA, "0.0001")
	if err != nil {
		t.Fatal(err)
	}
	out := asset.NewAmount(tokenB, big.NewInt(99_500_000))

	q, err := NewQuote(pool, in, out, DefaultSignificantDigits)
	if err != nil {
		t.Fatal(err)
	}

	if !q.Qty.Equal(decimal.RequireFromString("99.5")) {
		t.Errorf("Qty = %s, want 99.5", q.Qty)
	}
	if !q.Price.Equal(decimal.RequireFromString("0.00000100502512563")) {
		t.Errorf("Price = %s, want 0.00000100502512563", q.Price)
	}
	if q.Price.Equal(q.Qty) {
		t.Error("Price and Qty must be distinct values")
	}
	if q.Pool != pool.Address || q.Fee != pool.Fee {
		t.Error("pool metadata not carried")
	}

	pq := q.PriceQty()
	if pq.Qty != 99.5 {
		t.Errorf("PriceQty().Qty = %v", pq.Qty)
	}
	if pq.Price < 1.0050e-6 || pq.Price > 1.0051e-6 {
		t.Errorf("PriceQty().Price = %v", pq.Price)
	}

	if got := q.Rate(DefaultSignificantDigits); !got.Equal(decimal.RequireFromString("995000")) {
		t.Errorf("Rate = %s, want 995000", got)
	}
}

func TestNewQuote_ZeroOutput(t *testing.T) {
	pool := testPool(t)
	in := asset.NewAmount(tokenA, big.NewInt(1))

	_, err := NewQuote(pool, in, asset.Zero(tokenB), DefaultSignificantDigits)
	if !errors.Is(err, ErrEmptyOutput) {
		t.Errorf("want ErrEmptyOutput, got %v", err)
	}
}

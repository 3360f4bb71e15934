package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNilAsset        = errors.New("asset: nil asset")
	ErrNilRaw          = errors.New("asset: nil raw value")
	ErrInvalidAmount   = errors.New("asset: invalid decimal amount")
	ErrNegativeAmount  = errors.New("asset: negative amount")
	ErrTooManyDecimals = errors.New("asset: too many decimal places for asset")
	ErrAmountTooLarge  = errors.New("asset: amount exceeds uint256")
)

// maxRawDigits is the number of decimal digits in 2^256-1.
const maxRawDigits = 78

// Amount is an immutable Value Object representing a quantity of an asset.
// The raw value is always in the smallest unit (wei, satoshi, etc).
type Amount struct {
	raw   *big.Int
	asset *Asset
}

// NewAmount creates a new Amount from a raw big.Int value.
// The raw value must be in the smallest unit.
func NewAmount(asset *Asset, raw *big.Int) Amount {
	if asset == nil {
		panic(ErrNilAsset)
	}
	if raw == nil {
		panic(ErrNilRaw)
	}
	if raw.Sign() < 0 {
		panic(ErrNegativeAmount)
	}

	return Amount{
		raw:   new(big.Int).Set(raw),
		asset: asset,
	}
}

// Zero creates a zero Amount for the given asset.
func Zero(asset *Asset) Amount {
	return NewAmount(asset, big.NewInt(0))
}

// Raw returns a copy of the raw big.Int value.
func (a Amount) Raw() *big.Int {
	if a.raw == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.raw)
}

// Asset returns the asset this amount is denominated in.
func (a Amount) Asset() *Asset {
	return a.asset
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.raw == nil || a.raw.Sign() == 0
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.raw != nil && a.raw.Sign() > 0
}

// Equals returns true if both amounts are equal (same asset and value).
func (a Amount) Equals(b Amount) bool {
	if a.asset == nil || b.asset == nil {
		return false
	}
	if !a.asset.ID().Equals(b.asset.ID()) {
		return false
	}
	return a.Raw().Cmp(b.Raw()) == 0
}

// -----------------------------------------------------------------------------
// Boundary Functions (decimal conversion)
// -----------------------------------------------------------------------------

// ToDecimal converts the amount to its exact human-scale decimal value.
func (a Amount) ToDecimal() decimal.Decimal {
	if a.raw == nil || a.asset == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.raw, -int32(a.asset.Decimals()))
}

// ToSignificant returns the human-scale value rounded to digits significant digits.
func (a Amount) ToSignificant(digits int32) decimal.Decimal {
	return RoundSignificant(a.ToDecimal(), digits)
}

// ToFloat64 converts the amount to float64 for display.
// WARNING: Use only for display/logging, NOT for calculations.
func (a Amount) ToFloat64() float64 {
	f, _ := a.ToDecimal().Float64()
	return f
}

// ParseDecimal creates an Amount from a decimal value.
// The value must be representable in whole base units of the asset:
// "0.0000001" for a 6-decimals token is rejected, never truncated.
func ParseDecimal(asset *Asset, d decimal.Decimal) (Amount, error) {
	if asset == nil {
		return Amount{}, ErrNilAsset
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}

	if d.IsZero() {
		return Zero(asset), nil
	}

	// Bound the exponent before scaling; Shift and Truncate work on an
	// int32 exponent and would overflow or allocate 10^|exp|.
	decimals := int64(asset.Decimals())
	mag := int64(len(new(big.Int).Abs(d.Coefficient()).String())) + int64(d.Exponent())
	// d.String() would expand the exponent, so report coefficient and exponent.
	if mag+decimals > maxRawDigits {
		return Amount{}, fmt.Errorf("%w: %se%d", ErrAmountTooLarge, d.Coefficient(), d.Exponent())
	}
	if mag <= -decimals {
		return Amount{}, fmt.Errorf("%w: %se%d has more than %d decimals", ErrTooManyDecimals, d.Coefficient(), d.Exponent(), asset.Decimals())
	}

	scaled := d.Shift(int32(decimals))

	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, fmt.Errorf("%w: %s has more than %d decimals", ErrTooManyDecimals, d.String(), asset.Decimals())
	}

	raw := scaled.BigInt()
	if raw.BitLen() > 256 {
		return Amount{}, fmt.Errorf("%w: %s", ErrAmountTooLarge, d.String())
	}

	return NewAmount(asset, raw), nil
}

// ParseString creates an Amount from a string decimal value such as "0.0001".
func ParseString(asset *Asset, s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w %q: %v", ErrInvalidAmount, s, err)
	}
	return ParseDecimal(asset, d)
}

// RoundSignificant rounds d to the given number of significant digits
// (half away from zero). Zero is returned unchanged.
func RoundSignificant(d decimal.Decimal, digits int32) decimal.Decimal {
	if d.IsZero() || digits <= 0 {
		return d
	}

	return d.Round(digits - magnitude(d))
}

// DivSignificant returns num/den rounded to digits significant digits.
// The division keeps enough places for the result's magnitude, so very small
// and very large quotients keep the same relative precision.
func DivSignificant(num, den decimal.Decimal, digits int32) decimal.Decimal {
	if num.IsZero() {
		return decimal.Zero
	}

	const guard = 6
	places := digits - (magnitude(num) - magnitude(den)) + guard
	if places < 0 {
		places = 0
	}
	return RoundSignificant(num.DivRound(den, places), digits)
}

// magnitude is the power of ten just above the leading digit of d:
// d = coefficient * 10^exponent, so the leading digit sits at 10^(len(coef)+exp-1).
func magnitude(d decimal.Decimal) int32 {
	coef := new(big.Int).Abs(d.Coefficient())
	return int32(len(coef.String())) + d.Exponent()
}

// -----------------------------------------------------------------------------
// Display
// -----------------------------------------------------------------------------

// String returns a human-readable representation (e.g., "1.5 WETH").
func (a Amount) String() string {
	if a.asset == nil {
		return "0 ???"
	}
	return fmt.Sprintf("%s %s", a.ToDecimal().String(), a.asset.Symbol())
}

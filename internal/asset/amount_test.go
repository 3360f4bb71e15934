package asset_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/pool-quoter/internal/asset"
)

func TestAmount_Basic(t *testing.T) {
	// 1 WETH = 1e18 wei
	oneWETH := asset.NewAmount(asset.WETH, big.NewInt(1e18))

	if oneWETH.IsZero() {
		t.Error("expected non-zero amount")
	}

	d := oneWETH.ToDecimal()
	if !d.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", d.String())
	}

	if oneWETH.String() != "1 WETH" {
		t.Errorf("expected '1 WETH', got '%s'", oneWETH.String())
	}
}

func TestParseString(t *testing.T) {
	amount, err := asset.ParseString(asset.WETH, "0.0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if amount.Raw().Cmp(big.NewInt(100_000_000_000_000)) != 0 {
		t.Errorf("expected 100000000000000, got %s", amount.Raw().String())
	}
}

func TestParseString_BeyondInt64(t *testing.T) {
	// 1e30 WETH in wei does not fit in 64 bits
	amount, err := asset.ParseString(asset.WETH, "1000000000000000000000000000000.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected, _ := new(big.Int).SetString("1000000000000000000000000000000500000000000000000", 10)
	if amount.Raw().Cmp(expected) != 0 {
		t.Errorf("expected %s, got %s", expected, amount.Raw())
	}
}

func TestParseString_RoundTrip(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	raws := []string{"0", "1", "7", "99500000", "100000000000000", "123456789012345678901234567890"}

	for _, d := range []uint8{0, 6, 8, 18} {
		token := asset.MustNewToken(asset.ChainIDEthereum, addr, "TKN", "Token", d)

		for _, s := range raws {
			n, _ := new(big.Int).SetString(s, 10)

			// decimal representation of n / 10^d
			str := decimal.NewFromBigInt(n, -int32(d)).String()

			amount, err := asset.ParseString(token, str)
			if err != nil {
				t.Fatalf("decimals=%d n=%s: unexpected error: %v", d, s, err)
			}
			if amount.Raw().Cmp(n) != 0 {
				t.Errorf("decimals=%d: %q parsed to %s, want %s", d, str, amount.Raw(), n)
			}
		}
	}
}

func TestParseString_TooManyDecimals(t *testing.T) {
	// USDC has 6 decimals, 0.0000001 needs 7
	_, err := asset.ParseString(asset.USDC, "0.0000001")
	if !errors.Is(err, asset.ErrTooManyDecimals) {
		t.Errorf("expected ErrTooManyDecimals, got %v", err)
	}

	// Trailing zeros beyond the precision are fine
	amount, err := asset.ParseString(asset.USDC, "1.50000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount.Raw().Cmp(big.NewInt(1_500_000)) != 0 {
		t.Errorf("expected 1500000, got %s", amount.Raw())
	}
}

func TestParseString_Invalid(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"abc", asset.ErrInvalidAmount},
		{"", asset.ErrInvalidAmount},
		{"1.2.3", asset.ErrInvalidAmount},
		{"-1", asset.ErrNegativeAmount},
		{"1e70", asset.ErrAmountTooLarge},
		{"1e2147483640", asset.ErrAmountTooLarge},
		{"115792089237316195423570985008687907853269984665640564039457.584007913129639936", asset.ErrAmountTooLarge},
		{"1e-2147483640", asset.ErrTooManyDecimals},
	}

	for _, tt := range tests {
		_, err := asset.ParseString(asset.WETH, tt.input)
		if !errors.Is(err, tt.want) {
			t.Errorf("ParseString(%q): expected %v, got %v", tt.input, tt.want, err)
		}
	}
}

func TestParseString_Uint256Bound(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	token := asset.MustNewToken(asset.ChainIDEthereum, addr, "TKN", "Token", 0)

	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	amount, err := asset.ParseString(token, maxUint256.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount.Raw().Cmp(maxUint256) != 0 {
		t.Errorf("expected %s, got %s", maxUint256, amount.Raw())
	}

	over := new(big.Int).Add(maxUint256, big.NewInt(1))
	if _, err := asset.ParseString(token, over.String()); !errors.Is(err, asset.ErrAmountTooLarge) {
		t.Errorf("expected ErrAmountTooLarge, got %v", err)
	}

	zero, err := asset.ParseString(token, "0e2147483640")
	if err != nil || !zero.IsZero() {
		t.Errorf("expected zero amount, got %s (%v)", zero.Raw(), err)
	}
}

func TestRoundSignificant(t *testing.T) {
	tests := []struct {
		in     string
		digits int32
		want   string
	}{
		{"99.5", 12, "99.5"},
		{"0.00000100502512562814070351", 12, "0.00000100502512563"},
		{"123456789.123456789", 12, "123456789.123"},
		{"123456789012345", 12, "123456789012000"},
		{"0.1234565", 6, "0.123457"},
		{"-2.5", 1, "-3"},
		{"0", 12, "0"},
	}

	for _, tt := range tests {
		got := asset.RoundSignificant(decimal.RequireFromString(tt.in), tt.digits)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("RoundSignificant(%s, %d) = %s, want %s", tt.in, tt.digits, got, tt.want)
		}
	}
}

func TestDivSignificant(t *testing.T) {
	tests := []struct {
		num, den string
		digits   int32
		want     string
	}{
		{"0.0001", "99.5", 12, "0.00000100502512563"},
		{"1", "3", 12, "0.333333333333"},
		{"2", "3", 12, "0.666666666667"},
		{"0.000000000000000000000000000001", "10000000000", 12, "0.0000000000000000000000000000000000000001"},
		{"100000000000000000000", "3", 4, "33330000000000000000"},
		{"0", "7", 12, "0"},
	}

	for _, tt := range tests {
		got := asset.DivSignificant(decimal.RequireFromString(tt.num), decimal.RequireFromString(tt.den), tt.digits)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("DivSignificant(%s, %s, %d) = %s, want %s", tt.num, tt.den, tt.digits, got, tt.want)
		}
	}
}

func TestAmount_ToSignificant(t *testing.T) {
	out := asset.NewAmount(asset.USDC, big.NewInt(99_500_000))

	if !out.ToSignificant(12).Equal(decimal.RequireFromString("99.5")) {
		t.Errorf("expected 99.5, got %s", out.ToSignificant(12))
	}
}

func TestAssetID_Identity(t *testing.T) {
	usdcEth := asset.NewTokenAssetID(1, asset.AddrUSDCEthereum)
	usdcEth2 := asset.NewTokenAssetID(1, asset.AddrUSDCEthereum)

	if !usdcEth.Equals(usdcEth2) {
		t.Error("same asset should have equal IDs")
	}

	usdcPolygon := asset.NewTokenAssetID(137, asset.AddrUSDCEthereum)

	if usdcEth.Equals(usdcPolygon) {
		t.Error("different chains should have different IDs")
	}
}

func TestParseAddress_CaseInsensitive(t *testing.T) {
	lower, err := asset.ParseAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mixed, err := asset.ParseAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lower != mixed {
		t.Error("expected equal addresses")
	}

	if _, err := asset.ParseAddress("0x1234"); err == nil {
		t.Error("expected error for short address")
	}
}

func TestRegistry(t *testing.T) {
	r := asset.DefaultRegistry()

	usdc, ok := r.GetBySymbolAndChain("usdc", asset.ChainIDEthereum)
	if !ok {
		t.Fatal("USDC not found in registry")
	}
	if usdc.Decimals() != 6 {
		t.Errorf("expected 6 decimals, got %d", usdc.Decimals())
	}

	weth, ok := r.GetToken(asset.ChainIDEthereum, asset.AddrWETHEthereum)
	if !ok || weth.Symbol() != "WETH" {
		t.Errorf("expected WETH, got %v", weth)
	}

	addr, ok := r.ResolveAddress(asset.ChainIDEthereum, "WBTC")
	if !ok || addr != asset.AddrWBTCEthereum {
		t.Errorf("expected WBTC address, got %s", addr.Hex())
	}
}

package uniswap

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/config"
	"github.com/fd1az/pool-quoter/internal/logger"
)

var (
	tokenIn  = common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	tokenOut = common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB")
)

type revertError struct{}

func (revertError) Error() string          { return "execution reverted" }
func (revertError) ErrorData() interface{} { return "0x" }

// fakeQuoterContract decodes calldata with the contract ABI and answers
// with a canned, ABI-encoded response.
type fakeQuoterContract struct {
	t      *testing.T
	abi    abi.ABI
	inputs []any
	to     common.Address
	output []any
	err    error
	calls  int
}

func newFakeQuoterContract(t *testing.T, abiJSON string, output ...any) *fakeQuoterContract {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	require.NoError(t, err)
	return &fakeQuoterContract{t: t, abi: parsed, output: output}
}

func (f *fakeQuoterContract) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls++
	f.to = *msg.To

	method, err := f.abi.MethodById(msg.Data[:4])
	require.NoError(f.t, err)
	require.Equal(f.t, methodQuoteExactInputSingle, method.Name)

	f.inputs, err = method.Inputs.Unpack(msg.Data[4:])
	require.NoError(f.t, err)

	if f.err != nil {
		return nil, f.err
	}
	return method.Outputs.Pack(f.output...)
}

func TestQuoterV1_QuoteExactInputSingle(t *testing.T) {
	fc := newFakeQuoterContract(t, QuoterV1ABI, big.NewInt(99_500_000))
	q, err := NewQuoterV1(fc, QuoterV1Address, logger.NewNop())
	require.NoError(t, err)

	out, err := q.QuoteExactInputSingle(context.Background(), tokenIn, tokenOut, 3000, big.NewInt(100_000_000_000_000), big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, "99500000", out.String())

	assert.Equal(t, QuoterV1Address, fc.to)
	require.Len(t, fc.inputs, 5)
	assert.Equal(t, tokenIn, fc.inputs[0])
	assert.Equal(t, tokenOut, fc.inputs[1])
	assert.Equal(t, "3000", fc.inputs[2].(*big.Int).String())
	assert.Equal(t, "100000000000000", fc.inputs[3].(*big.Int).String())
	assert.Zero(t, fc.inputs[4].(*big.Int).Sign())
}

func TestQuoterV2_Quote(t *testing.T) {
	sqrtAfter, _ := new(big.Int).SetString("1771595571142957166518320255467520", 10)
	fc := newFakeQuoterContract(t, QuoterV2ABI, big.NewInt(42), sqrtAfter, uint32(3), big.NewInt(85_000))
	q, err := NewQuoterV2(fc, QuoterV2Address, logger.NewNop())
	require.NoError(t, err)

	res, err := q.Quote(context.Background(), tokenIn, tokenOut, 500, big.NewInt(1_000), nil)
	require.NoError(t, err)
	assert.Equal(t, "42", res.AmountOut.String())
	assert.Equal(t, 0, sqrtAfter.Cmp(res.SqrtPriceX96After))
	assert.Equal(t, uint32(3), res.InitializedTicksCrossed)
	assert.Equal(t, "85000", res.GasEstimate.String())

	require.Len(t, fc.inputs, 1)
	params := abi.ConvertType(fc.inputs[0], QuoteExactInputSingleParams{}).(QuoteExactInputSingleParams)
	assert.Equal(t, tokenIn, params.TokenIn)
	assert.Equal(t, tokenOut, params.TokenOut)
	assert.Equal(t, "1000", params.AmountIn.String())
	assert.Equal(t, "500", params.Fee.String())
	assert.Zero(t, params.SqrtPriceLimitX96.Sign())
}

func TestQuoter_RevertsDoNotTripBreaker(t *testing.T) {
	fc := newFakeQuoterContract(t, QuoterV1ABI)
	fc.err = revertError{}
	q, err := NewQuoterV1(fc, QuoterV1Address, logger.NewNop())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := q.QuoteExactInputSingle(context.Background(), tokenIn, tokenOut, 3000, big.NewInt(1), big.NewInt(0))
		assert.Equal(t, apperror.CodeContractCallFailed, apperror.GetCode(err))
	}
	assert.Equal(t, 10, fc.calls)
}

func TestQuoter_TransportFailuresOpenBreaker(t *testing.T) {
	fc := newFakeQuoterContract(t, QuoterV1ABI)
	fc.err = errors.New("dial tcp: connection refused")
	q, err := NewQuoterV1(fc, QuoterV1Address, logger.NewNop())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := q.QuoteExactInputSingle(context.Background(), tokenIn, tokenOut, 3000, big.NewInt(1), big.NewInt(0))
		assert.Equal(t, apperror.CodeContractCallFailed, apperror.GetCode(err))
	}

	_, err = q.QuoteExactInputSingle(context.Background(), tokenIn, tokenOut, 3000, big.NewInt(1), big.NewInt(0))
	assert.Equal(t, apperror.CodeCircuitOpen, apperror.GetCode(err))
	assert.Equal(t, 5, fc.calls, "open breaker must not reach the node")
}

func TestQuoter_MalformedResponse(t *testing.T) {
	q, err := NewQuoterV2(callerFunc(func() ([]byte, error) { return []byte{0x01}, nil }), QuoterV2Address, logger.NewNop())
	require.NoError(t, err)

	_, err = q.QuoteExactInputSingle(context.Background(), tokenIn, tokenOut, 3000, big.NewInt(1), big.NewInt(0))
	assert.Equal(t, apperror.CodeContractCallFailed, apperror.GetCode(err))
}

func TestNew_SelectsVersion(t *testing.T) {
	fc := newFakeQuoterContract(t, QuoterV1ABI)

	tests := []struct {
		version string
		want    string
		wantErr bool
	}{
		{config.QuoterV1, config.QuoterV1, false},
		{config.QuoterV2, config.QuoterV2, false},
		{"", config.QuoterV1, false},
		{"v3", "", true},
	}

	for _, tt := range tests {
		q, err := New(fc, config.UniswapConfig{
			QuoterAddress: QuoterV2Address.Hex(),
			QuoterVersion: tt.version,
		}, logger.NewNop())
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, q.Version())
		assert.Equal(t, QuoterV2Address, q.Address())
	}
}

type callerFunc func() ([]byte, error)

func (f callerFunc) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return f()
}

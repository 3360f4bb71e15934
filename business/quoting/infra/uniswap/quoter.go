// Package uniswap implements the Quoter port against the Uniswap V3 Quoter contracts.
package uniswap

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/pool-quoter/business/quoting/app"
	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/chain"
	"github.com/fd1az/pool-quoter/internal/circuitbreaker"
	"github.com/fd1az/pool-quoter/internal/config"
	"github.com/fd1az/pool-quoter/internal/logger"
)

const (
	tracerName = "uniswap-quoter"
	meterName  = "uniswap-quoter"
)

// Ensure Quoter implements app.Quoter.
var _ app.Quoter = (*Quoter)(nil)

// quoterMetrics holds OTEL metric instruments.
type quoterMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteLatency metric.Float64Histogram
	quoteErrors  metric.Int64Counter
}

// codec encodes one Quoter generation's calldata and decodes its output.
type codec interface {
	pack(tokenIn, tokenOut common.Address, fee uint32, amountIn, sqrtPriceLimitX96 *big.Int) ([]byte, error)
	unpack(data []byte) (*QuoteResult, error)
}

// Quoter calls quoteExactInputSingle on a Uniswap V3 Quoter (V1 or V2).
type Quoter struct {
	client  ethereum.ContractCaller
	address common.Address
	version string
	codec   codec

	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[[]byte]

	tracer  trace.Tracer
	metrics *quoterMetrics
}

// New creates the Quoter selected by cfg.QuoterVersion.
func New(client ethereum.ContractCaller, cfg config.UniswapConfig, log logger.LoggerInterface) (*Quoter, error) {
	switch cfg.QuoterVersion {
	case config.QuoterV2:
		return NewQuoterV2(client, cfg.QuoterAddressHex(), log)
	case config.QuoterV1, "":
		return NewQuoterV1(client, cfg.QuoterAddressHex(), log)
	default:
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContextf("unknown quoter version %q", cfg.QuoterVersion))
	}
}

// NewQuoterV1 binds the first-generation Quoter (flat arguments, amountOut only).
func NewQuoterV1(client ethereum.ContractCaller, address common.Address, log logger.LoggerInterface) (*Quoter, error) {
	parsed, err := abi.JSON(strings.NewReader(QuoterV1ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter v1 ABI: %w", err)
	}
	return newQuoter(client, address, config.QuoterV1, v1Codec{abi: parsed}, log)
}

// NewQuoterV2 binds QuoterV2 (tuple params, amountOut plus price/ticks/gas).
func NewQuoterV2(client ethereum.ContractCaller, address common.Address, log logger.LoggerInterface) (*Quoter, error) {
	parsed, err := abi.JSON(strings.NewReader(QuoterV2ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter v2 ABI: %w", err)
	}
	return newQuoter(client, address, config.QuoterV2, v2Codec{abi: parsed}, log)
}

func newQuoter(client ethereum.ContractCaller, address common.Address, version string, c codec, log logger.LoggerInterface) (*Quoter, error) {
	q := &Quoter{
		client:  client,
		address: address,
		version: version,
		codec:   c,
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}

	// Reverts (no pool, no liquidity) mean the node answered; only transport
	// failures count against the breaker.
	cbCfg := circuitbreaker.DefaultConfig("uniswap-quoter-" + version)
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || chain.IsRevert(err)
	}
	cbCfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn(context.Background(), "circuit breaker state change",
			"breaker", name, "from", string(from), "to", string(to))
	}
	q.cb = circuitbreaker.New[[]byte](cbCfg)

	if err := q.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return q, nil
}

func (q *Quoter) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	q.metrics = &quoterMetrics{}

	q.metrics.quotesTotal, err = meter.Int64Counter(
		"uniswap_quotes_total",
		metric.WithDescription("Total quote requests"),
	)
	if err != nil {
		return err
	}

	q.metrics.quoteLatency, err = meter.Float64Histogram(
		"uniswap_quote_latency_ms",
		metric.WithDescription("Quote request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	q.metrics.quoteErrors, err = meter.Int64Counter(
		"uniswap_quote_errors_total",
		metric.WithDescription("Total quote errors"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Version returns "v1" or "v2".
func (q *Quoter) Version() string {
	return q.version
}

// Address returns the quoter contract address.
func (q *Quoter) Address() common.Address {
	return q.address
}

// QuoteExactInputSingle returns amountOut for an exact input swap.
func (q *Quoter) QuoteExactInputSingle(ctx context.Context, tokenIn, tokenOut common.Address, fee uint32, amountIn, sqrtPriceLimitX96 *big.Int) (*big.Int, error) {
	res, err := q.Quote(ctx, tokenIn, tokenOut, fee, amountIn, sqrtPriceLimitX96)
	if err != nil {
		return nil, err
	}
	return res.AmountOut, nil
}

// Quote calls quoteExactInputSingle and returns every decoded output.
func (q *Quoter) Quote(ctx context.Context, tokenIn, tokenOut common.Address, fee uint32, amountIn, sqrtPriceLimitX96 *big.Int) (*QuoteResult, error) {
	versionAttr := attribute.String("quoter_version", q.version)

	ctx, span := q.tracer.Start(ctx, "uniswap.quote_exact_input_single",
		trace.WithAttributes(
			versionAttr,
			attribute.String("token_in", tokenIn.Hex()),
			attribute.String("token_out", tokenOut.Hex()),
			attribute.Int("fee_tier", int(fee)),
			attribute.String("amount_in", amountIn.String()),
		),
	)
	defer span.End()

	start := time.Now()
	q.metrics.quotesTotal.Add(ctx, 1, metric.WithAttributes(versionAttr))

	res, err := q.quote(ctx, tokenIn, tokenOut, fee, amountIn, sqrtPriceLimitX96)

	q.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(versionAttr))

	if err != nil {
		q.metrics.quoteErrors.Add(ctx, 1, metric.WithAttributes(versionAttr))
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote failed")
		return nil, err
	}

	span.SetAttributes(attribute.String("amount_out", res.AmountOut.String()))
	span.SetStatus(codes.Ok, "quote received")

	q.logger.Debug(ctx, "uniswap quote",
		"quoter", q.version,
		"token_in", tokenIn.Hex(),
		"token_out", tokenOut.Hex(),
		"fee_tier", fee,
		"amount_in", amountIn.String(),
		"amount_out", res.AmountOut.String(),
	)

	return res, nil
}

func (q *Quoter) quote(ctx context.Context, tokenIn, tokenOut common.Address, fee uint32, amountIn, sqrtPriceLimitX96 *big.Int) (*QuoteResult, error) {
	if sqrtPriceLimitX96 == nil {
		sqrtPriceLimitX96 = big.NewInt(0) // No price limit
	}

	// Encode call data for quoteExactInputSingle
	callData, err := q.codec.pack(tokenIn, tokenOut, fee, amountIn, sqrtPriceLimitX96)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput,
			apperror.WithCause(err), apperror.WithContext("failed to encode quoter call"))
	}

	// Execute call through circuit breaker
	result, err := q.cb.Execute(func() ([]byte, error) {
		return q.client.CallContract(ctx, ethereum.CallMsg{
			To:   &q.address,
			Data: callData,
		}, nil)
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		reason := "quoter call failed"
		if chain.IsRevert(err) {
			reason = "quoter call reverted"
		}
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContextf("%s for fee tier %d", reason, fee))
	}

	// Decode result
	res, err := q.codec.unpack(result)
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err), apperror.WithContext("failed to decode quoter result"))
	}
	return res, nil
}

type v1Codec struct {
	abi abi.ABI
}

func (c v1Codec) pack(tokenIn, tokenOut common.Address, fee uint32, amountIn, sqrtPriceLimitX96 *big.Int) ([]byte, error) {
	return c.abi.Pack(methodQuoteExactInputSingle,
		tokenIn,
		tokenOut,
		new(big.Int).SetUint64(uint64(fee)),
		amountIn,
		sqrtPriceLimitX96,
	)
}

func (c v1Codec) unpack(data []byte) (*QuoteResult, error) {
	outputs, err := c.abi.Unpack(methodQuoteExactInputSingle, data)
	if err != nil {
		return nil, err
	}
	if len(outputs) < 1 {
		return nil, fmt.Errorf("unexpected output length: %d", len(outputs))
	}
	amountOut, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected amountOut type %T", outputs[0])
	}
	return &QuoteResult{AmountOut: amountOut}, nil
}

type v2Codec struct {
	abi abi.ABI
}

func (c v2Codec) pack(tokenIn, tokenOut common.Address, fee uint32, amountIn, sqrtPriceLimitX96 *big.Int) ([]byte, error) {
	return c.abi.Pack(methodQuoteExactInputSingle, QuoteExactInputSingleParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               new(big.Int).SetUint64(uint64(fee)),
		SqrtPriceLimitX96: sqrtPriceLimitX96,
	})
}

func (c v2Codec) unpack(data []byte) (*QuoteResult, error) {
	outputs, err := c.abi.Unpack(methodQuoteExactInputSingle, data)
	if err != nil {
		return nil, err
	}
	if len(outputs) < 4 {
		return nil, fmt.Errorf("unexpected output length: %d", len(outputs))
	}

	amountOut, ok1 := outputs[0].(*big.Int)
	sqrtAfter, ok2 := outputs[1].(*big.Int)
	ticks, ok3 := outputs[2].(uint32)
	gas, ok4 := outputs[3].(*big.Int)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, fmt.Errorf("unexpected output types %T %T %T %T", outputs[0], outputs[1], outputs[2], outputs[3])
	}

	return &QuoteResult{
		AmountOut:               amountOut,
		SqrtPriceX96After:       sqrtAfter,
		InitializedTicksCrossed: ticks,
		GasEstimate:             gas,
	}, nil
}

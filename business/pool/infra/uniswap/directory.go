// Package uniswap implements the pool Directory against Uniswap V3 pool contracts.
package uniswap

import (
	"context"
	"errors"
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
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/pool-quoter/business/pool/app"
	"github.com/fd1az/pool-quoter/business/pool/domain"
	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/asset"
	"github.com/fd1az/pool-quoter/internal/cache"
	"github.com/fd1az/pool-quoter/internal/chain"
	"github.com/fd1az/pool-quoter/internal/logger"
)

const tracerName = "uniswap-pool"

// errNoCode is returned when eth_call answers with no data, which is what
// a node does for an address without contract code.
var errNoCode = errors.New("empty call result: no contract at address")

// ChainReader is the chain surface the directory needs.
type ChainReader interface {
	ethereum.ContractCaller
	BlockNumber(ctx context.Context) (uint64, error)
}

// Ensure Directory implements app.Directory.
var _ app.Directory = (*Directory)(nil)

// Directory loads pool and token metadata from chain.
type Directory struct {
	client   ChainReader
	chainID  uint64
	registry *asset.Registry
	tokens   *cache.Cache[common.Address, *asset.Asset]

	logger logger.LoggerInterface
	tracer trace.Tracer
}

// Options tune the directory.
type Options struct {
	ChainID       uint64
	Registry      *asset.Registry // nil = asset.DefaultRegistry()
	TokenCacheTTL time.Duration
}

// NewDirectory creates a Directory bound to one chain.
func NewDirectory(client ChainReader, opts Options, log logger.LoggerInterface) (*Directory, error) {
	if _, _, _, err := parsedABIs(); err != nil {
		return nil, fmt.Errorf("failed to parse pool ABIs: %w", err)
	}

	registry := opts.Registry
	if registry == nil {
		registry = asset.DefaultRegistry()
	}
	chainID := opts.ChainID
	if chainID == 0 {
		chainID = asset.ChainIDEthereum
	}

	return &Directory{
		client:   client,
		chainID:  chainID,
		registry: registry,
		tokens:   cache.New[common.Address, *asset.Asset](opts.TokenCacheTTL),
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}, nil
}

// Load reads token0, token1, fee and tickSpacing, then both tokens' metadata.
func (d *Directory) Load(ctx context.Context, poolAddress common.Address) (*domain.Pool, error) {
	ctx, span := d.tracer.Start(ctx, "uniswap.load_pool",
		trace.WithAttributes(attribute.String("pool", poolAddress.Hex())),
	)
	defer span.End()

	pool, err := d.load(ctx, poolAddress)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pool load failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("token0", pool.TokenA.Address().Hex()),
		attribute.String("token1", pool.TokenB.Address().Hex()),
		attribute.Int("fee", int(pool.Fee)),
	)
	span.SetStatus(codes.Ok, "pool loaded")

	d.logger.Debug(ctx, "pool loaded",
		"pool", poolAddress.Hex(),
		"pair", pool.String(),
		"tick_spacing", pool.TickSpacing,
	)

	return pool, nil
}

func (d *Directory) load(ctx context.Context, poolAddress common.Address) (*domain.Pool, error) {
	poolABI, _, _, _ := parsedABIs()

	values, err := d.call(ctx, poolABI, poolAddress, "token0", nil)
	if err != nil {
		if errors.Is(err, errNoCode) || chain.IsRevert(err) {
			return nil, apperror.New(apperror.CodeUniswapPoolNotFound,
				apperror.WithCause(err), apperror.WithContext(poolAddress.Hex()))
		}
		return nil, d.callFailed(poolAddress, "token0", err)
	}
	token0, err := asAddress(values[0])
	if err != nil {
		return nil, d.callFailed(poolAddress, "token0", err)
	}

	values, err = d.call(ctx, poolABI, poolAddress, "token1", nil)
	if err != nil {
		return nil, d.callFailed(poolAddress, "token1", err)
	}
	token1, err := asAddress(values[0])
	if err != nil {
		return nil, d.callFailed(poolAddress, "token1", err)
	}

	values, err = d.call(ctx, poolABI, poolAddress, "fee", nil)
	if err != nil {
		return nil, d.callFailed(poolAddress, "fee", err)
	}
	feeInt, err := asBigInt(values[0])
	if err != nil {
		return nil, d.callFailed(poolAddress, "fee", err)
	}
	if !feeInt.IsUint64() || feeInt.Uint64() > 1<<24-1 {
		return nil, d.callFailed(poolAddress, "fee", fmt.Errorf("uint24 overflow: %s", feeInt))
	}
	fee, err := domain.ParseFeeTier(uint32(feeInt.Uint64()))
	if err != nil {
		return nil, err
	}

	values, err = d.call(ctx, poolABI, poolAddress, "tickSpacing", nil)
	if err != nil {
		return nil, d.callFailed(poolAddress, "tickSpacing", err)
	}
	tickSpacingInt, err := asBigInt(values[0])
	if err != nil {
		return nil, d.callFailed(poolAddress, "tickSpacing", err)
	}
	tickSpacing, err := int24FromBig(tickSpacingInt)
	if err != nil {
		return nil, d.callFailed(poolAddress, "tickSpacing", err)
	}

	tokenA, err := d.Token(ctx, token0)
	if err != nil {
		return nil, err
	}
	tokenB, err := d.Token(ctx, token1)
	if err != nil {
		return nil, err
	}

	return domain.NewPool(poolAddress, tokenA, tokenB, fee, tickSpacing)
}

// Token resolves token metadata: registry first, then cache, then chain.
func (d *Directory) Token(ctx context.Context, addr common.Address) (*asset.Asset, error) {
	if a, ok := d.registry.GetToken(d.chainID, addr); ok {
		return a, nil
	}
	return d.tokens.GetOrLoad(addr, func() (*asset.Asset, error) {
		return d.fetchToken(ctx, addr)
	})
}

func (d *Directory) fetchToken(ctx context.Context, addr common.Address) (*asset.Asset, error) {
	_, erc20ABI, erc20B32ABI, _ := parsedABIs()

	values, err := d.call(ctx, erc20ABI, addr, "decimals", nil)
	if err != nil {
		return nil, apperror.New(apperror.CodeTokenMetadataFailed,
			apperror.WithCause(err), apperror.WithContextf("decimals() on %s", addr.Hex()))
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return nil, apperror.New(apperror.CodeTokenMetadataFailed,
			apperror.WithCause(err), apperror.WithContextf("decimals() on %s", addr.Hex()))
	}
	if decimals > asset.MaxDecimals {
		return nil, apperror.New(apperror.CodeTokenMetadataFailed,
			apperror.WithContextf("token %s reports %d decimals", addr.Hex(), decimals))
	}

	symbol := d.metadataString(ctx, erc20ABI, erc20B32ABI, addr, "symbol")
	if symbol == "" {
		symbol = asset.ShortSymbol(addr)
	}
	name := d.metadataString(ctx, erc20ABI, erc20B32ABI, addr, "name")

	d.logger.Debug(ctx, "token metadata fetched",
		"token", addr.Hex(),
		"symbol", symbol,
		"decimals", decimals,
	)

	return asset.NewAssetWithName(asset.NewTokenAssetID(d.chainID, addr), symbol, name, decimals), nil
}

// metadataString reads symbol() or name(), trying the string ABI and then
// the bytes32 one. Failures are not fatal and yield "".
func (d *Directory) metadataString(ctx context.Context, stringABI, bytes32ABI abi.ABI, addr common.Address, method string) string {
	if values, err := d.call(ctx, stringABI, addr, method, nil); err == nil {
		if s, ok := values[0].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	values, err := d.call(ctx, bytes32ABI, addr, method, nil)
	if err != nil {
		d.logger.Debug(ctx, "token metadata call failed", "token", addr.Hex(), "method", method, "error", err)
		return ""
	}
	s, _ := bytes32ToString(values[0])
	return strings.TrimSpace(s)
}

// State reads slot0 and liquidity pinned to the latest block.
func (d *Directory) State(ctx context.Context, pool *domain.Pool) (*domain.State, error) {
	ctx, span := d.tracer.Start(ctx, "uniswap.pool_state",
		trace.WithAttributes(attribute.String("pool", pool.Address.Hex())),
	)
	defer span.End()

	state, err := d.state(ctx, pool)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pool state unavailable")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("block", int64(state.BlockNumber)),
		attribute.Int("tick", int(state.Tick)),
	)
	return state, nil
}

func (d *Directory) state(ctx context.Context, pool *domain.Pool) (*domain.State, error) {
	poolABI, _, _, _ := parsedABIs()

	unavailable := func(method string, err error) error {
		return apperror.New(apperror.CodePoolStateUnavailable,
			apperror.WithCause(err), apperror.WithContextf("%s() on %s", method, pool.Address.Hex()))
	}

	blockNumber, err := d.client.BlockNumber(ctx)
	if err != nil {
		return nil, unavailable("blockNumber", err)
	}
	block := new(big.Int).SetUint64(blockNumber)

	values, err := d.call(ctx, poolABI, pool.Address, "slot0", block)
	if err != nil {
		return nil, unavailable("slot0", err)
	}
	if len(values) < 2 {
		return nil, unavailable("slot0", fmt.Errorf("unexpected output length: %d", len(values)))
	}
	sqrtPrice, err := asBigInt(values[0])
	if err != nil {
		return nil, unavailable("slot0", err)
	}
	tickInt, err := asBigInt(values[1])
	if err != nil {
		return nil, unavailable("slot0", err)
	}
	tick, err := int24FromBig(tickInt)
	if err != nil {
		return nil, unavailable("slot0", err)
	}

	values, err = d.call(ctx, poolABI, pool.Address, "liquidity", block)
	if err != nil {
		return nil, unavailable("liquidity", err)
	}
	liquidity, err := asBigInt(values[0])
	if err != nil {
		return nil, unavailable("liquidity", err)
	}

	return &domain.State{
		SqrtPriceX96: sqrtPrice,
		Tick:         tick,
		Liquidity:    liquidity,
		BlockNumber:  blockNumber,
	}, nil
}

func (d *Directory) call(ctx context.Context, parsed abi.ABI, to common.Address, method string, block *big.Int) ([]any, error) {
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	resp, err := d.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, block)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("call %s: %w", method, errNoCode)
	}

	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("unpack %s: no outputs", method)
	}
	return values, nil
}

func (d *Directory) callFailed(pool common.Address, method string, err error) error {
	return apperror.New(apperror.CodeContractCallFailed,
		apperror.WithCause(err), apperror.WithContextf("%s() on pool %s", method, pool.Hex()))
}

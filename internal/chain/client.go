// Package chain wraps the go-ethereum RPC client with throttling and per-call timeouts.
package chain

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/ratelimit"
)

// Caller is the read-only surface the quoter and the pool directory need.
type Caller interface {
	ethereum.ContractCaller
}

var _ Caller = (*Client)(nil)

// Client wraps go-ethereum RPC and provides helper methods.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client

	limiter     *ratelimit.Limiter
	callTimeout time.Duration
}

// Options tune the client.
type Options struct {
	Limiter     *ratelimit.Limiter
	CallTimeout time.Duration
	HTTPClient  *http.Client // http(s) endpoints only
}

// Dial connects to the RPC URL.
func Dial(ctx context.Context, rpcURL string, opts Options) (*Client, error) {
	var dialOpts []rpc.ClientOption
	if opts.HTTPClient != nil {
		dialOpts = append(dialOpts, rpc.WithHTTPClient(opts.HTTPClient))
	}

	rpcClient, err := rpc.DialOptions(ctx, rpcURL, dialOpts...)
	if err != nil {
		return nil, apperror.External(apperror.CodeEthereumConnectionFailed, rpcURL, err)
	}

	return &Client{
		rpcClient:   rpcClient,
		ethClient:   ethclient.NewClient(rpcClient),
		limiter:     opts.Limiter,
		callTimeout: opts.CallTimeout,
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// ChainID returns the chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel, err := c.prepare(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return c.ethClient.ChainID(ctx)
}

// BlockNumber returns the latest block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel, err := c.prepare(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	return c.ethClient.BlockNumber(ctx)
}

// CodeAt returns the contract code of the given account.
func (c *Client) CodeAt(ctx context.Context, account [20]byte, blockNumber *big.Int) ([]byte, error) {
	ctx, cancel, err := c.prepare(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return c.ethClient.CodeAt(ctx, account, blockNumber)
}

// CallContract performs an eth_call for a contract method.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	ctx, cancel, err := c.prepare(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return c.ethClient.CallContract(ctx, msg, blockNumber)
}

func (c *Client) prepare(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, apperror.New(apperror.CodeRateLimitExceeded, apperror.WithCause(err))
	}

	if c.callTimeout <= 0 {
		return ctx, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	return ctx, cancel, nil
}

// IsRevert reports whether err is an EVM revert returned by eth_call, as
// opposed to a transport failure. Reverts mean the node is healthy.
func IsRevert(err error) bool {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return true
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == 3 {
		return true
	}
	return false
}

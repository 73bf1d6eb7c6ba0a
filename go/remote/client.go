// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package remote provides read access to the state of an Ethereum node at a
// fixed block through its JSON-RPC interface.
package remote

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Fantom-foundation/Umbra/go/bytecode"
	"github.com/Fantom-foundation/Umbra/go/shadow"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/consensus/misc/eip4844"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	requestTimer = metrics.NewRegisteredTimer("umbra/remote/requests", nil)
	errorCounter = metrics.NewRegisteredCounter("umbra/remote/errors", nil)
)

// Config contains the configuration options of a Client.
type Config struct {
	// URL of the node's RPC endpoint.
	URL string
	// Block all state is read from. If nil, the latest block at the time
	// the client is created is used.
	Block *big.Int
	// RequestTimeout bounds individual requests. Zero disables the limit.
	RequestTimeout time.Duration
	// RequestsPerSecond throttles requests sent to the node. Zero disables
	// throttling.
	RequestsPerSecond float64
	// Logger defaults to log.Root().
	Logger log.Logger
}

// Client fetches accounts, code and storage of a single block. It is safe
// for concurrent use.
type Client struct {
	client  *ethclient.Client
	head    *types.Header
	timeout time.Duration
	limiter *rate.Limiter
	log     log.Logger
}

var (
	_ shadow.RemoteFetcher = (*Client)(nil)
	_ bytecode.Fetcher     = (*Client)(nil)
)

// Dial connects to the node at config.URL and pins the configured block.
func Dial(ctx context.Context, config Config) (*Client, error) {
	client, err := ethclient.DialContext(ctx, config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.URL, err)
	}
	res, err := NewClient(ctx, client, config)
	if err != nil {
		client.Close()
		return nil, err
	}
	return res, nil
}

// NewClient creates a client on top of an established connection. The
// header of the configured block is fetched to pin the block number. The
// URL in config is ignored.
func NewClient(ctx context.Context, client *ethclient.Client, config Config) (*Client, error) {
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	if config.Logger == nil {
		config.Logger = log.Root()
	}
	res := &Client{
		client:  client,
		timeout: config.RequestTimeout,
		limiter: rate.NewLimiter(limit, 10),
		log:     config.Logger,
	}

	ctx, cancel, err := res.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	head, err := client.HeaderByNumber(ctx, config.Block)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch header of block %v: %w", config.Block, err)
	}
	res.head = head
	res.log.Debug("Pinned remote block", "number", head.Number, "hash", head.Hash())
	return res, nil
}

// Close terminates the connection to the node.
func (c *Client) Close() {
	c.client.Close()
}

// Head returns the header of the block state is read from.
func (c *Client) Head() *types.Header {
	return types.CopyHeader(c.head)
}

// BlockParameters describes the pinned block for local execution.
func (c *Client) BlockParameters(ctx context.Context) (umbra.BlockParameters, error) {
	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return umbra.BlockParameters{}, err
	}
	defer cancel()
	chainId, err := c.client.ChainID(ctx)
	if err != nil {
		errorCounter.Inc(1)
		return umbra.BlockParameters{}, &RemoteError{Method: "chainId", Err: err}
	}
	return blockParameters(chainId, c.head)
}

func blockParameters(chainId *big.Int, head *types.Header) (umbra.BlockParameters, error) {
	id, overflow := uint256.FromBig(chainId)
	if overflow {
		return umbra.BlockParameters{}, fmt.Errorf("chain id %v out of range", chainId)
	}
	res := umbra.BlockParameters{
		ChainID:     umbra.WordFromUint256(id),
		BlockNumber: head.Number.Int64(),
		Timestamp:   int64(head.Time),
		Coinbase:    umbra.Address(head.Coinbase),
		GasLimit:    umbra.Gas(head.GasLimit),
		PrevRandao:  umbra.Hash(head.MixDigest),
		Revision:    revisionOf(head),
	}
	if head.BaseFee != nil {
		fee, overflow := uint256.FromBig(head.BaseFee)
		if overflow {
			return umbra.BlockParameters{}, fmt.Errorf("base fee %v out of range", head.BaseFee)
		}
		res.BaseFee = umbra.ValueFromUint256(fee)
	}
	if head.ExcessBlobGas != nil {
		fee, _ := uint256.FromBig(eip4844.CalcBlobFee(*head.ExcessBlobGas))
		res.BlobBaseFee = umbra.ValueFromUint256(fee)
	}
	return res, nil
}

// revisionOf derives the revision of a block from the fields present in its
// header.
func revisionOf(head *types.Header) umbra.Revision {
	switch {
	case head.ExcessBlobGas != nil:
		return umbra.R13_Cancun
	case head.WithdrawalsHash != nil:
		return umbra.R12_Shanghai
	case head.BaseFee != nil && head.Difficulty != nil && head.Difficulty.Sign() == 0:
		return umbra.R11_Paris
	case head.BaseFee != nil:
		return umbra.R10_London
	default:
		return umbra.R09_Berlin
	}
}

// begin waits for the rate limiter and derives the context of a single
// request.
func (c *Client) begin(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	if c.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		return ctx, cancel, nil
	}
	return ctx, func() {}, nil
}

func (c *Client) call(ctx context.Context, method string, addr umbra.Address, request func(context.Context) error) error {
	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return &RemoteError{Method: method, Address: addr, Err: err}
	}
	defer cancel()

	start := time.Now()
	err = request(ctx)
	requestTimer.UpdateSince(start)
	if err != nil {
		errorCounter.Inc(1)
		c.log.Trace("Remote request failed", "method", method, "address", addr, "err", err)
		return &RemoteError{Method: method, Address: addr, Err: err}
	}
	c.log.Trace("Remote request served", "method", method, "address", addr, "elapsed", time.Since(start))
	return nil
}

// FetchCode returns the code of addr at the pinned block.
func (c *Client) FetchCode(ctx context.Context, addr umbra.Address) ([]byte, error) {
	var code []byte
	err := c.call(ctx, "getCode", addr, func(ctx context.Context) (err error) {
		code, err = c.client.CodeAt(ctx, common.Address(addr), c.head.Number)
		return err
	})
	return code, err
}

// FetchAccount returns balance and nonce of addr at the pinned block. Both
// are requested concurrently.
func (c *Client) FetchAccount(ctx context.Context, addr umbra.Address) (*uint256.Int, uint64, error) {
	var (
		balance *big.Int
		nonce   uint64
	)
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return c.call(ctx, "getBalance", addr, func(ctx context.Context) (err error) {
			balance, err = c.client.BalanceAt(ctx, common.Address(addr), c.head.Number)
			return err
		})
	})
	group.Go(func() error {
		return c.call(ctx, "getTransactionCount", addr, func(ctx context.Context) (err error) {
			nonce, err = c.client.NonceAt(ctx, common.Address(addr), c.head.Number)
			return err
		})
	})
	if err := group.Wait(); err != nil {
		return nil, 0, err
	}
	res, overflow := uint256.FromBig(balance)
	if overflow {
		return nil, 0, &RemoteError{Method: "getBalance", Address: addr, Err: fmt.Errorf("balance %v out of range", balance)}
	}
	return res, nonce, nil
}

// FetchStorage returns the value of a storage slot at the pinned block.
func (c *Client) FetchStorage(ctx context.Context, addr umbra.Address, key umbra.Key) (umbra.Word, error) {
	var value []byte
	err := c.call(ctx, "getStorageAt", addr, func(ctx context.Context) (err error) {
		value, err = c.client.StorageAt(ctx, common.Address(addr), common.Hash(key), c.head.Number)
		return err
	})
	if err != nil {
		return umbra.Word{}, err
	}
	if len(value) > len(umbra.Word{}) {
		return umbra.Word{}, &RemoteError{Method: "getStorageAt", Address: addr, Err: fmt.Errorf("invalid value length %d", len(value))}
	}
	return umbra.Word(common.BytesToHash(value)), nil
}

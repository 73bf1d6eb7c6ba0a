// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"math/big"
	"runtime"

	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
)

var (
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
	rpcFlag = &cli.StringFlag{
		Name:     "rpc",
		Usage:    "JSON-RPC endpoint of the node state is read from",
		EnvVars:  []string{"ETH_RPC_URL"},
		Required: true,
	}
	blockFlag = &cli.Int64Flag{
		Name:  "block",
		Usage: "number of the block state is read from, latest if zero",
	}
	requestsPerSecondFlag = &cli.Float64Flag{
		Name:  "rps",
		Usage: "maximum number of requests per second sent to the node, unlimited if zero",
	}
	requestTimeoutFlag = &cli.DurationFlag{
		Name:  "request-timeout",
		Usage: "timeout of individual requests sent to the node, unlimited if zero",
	}
	cacheDirFlag = &cli.StringFlag{
		Name:    "cache-dir",
		Usage:   "directory caching contract code between runs",
		EnvVars: []string{"UMBRA_CACHE_DIR"},
		Value:   ".evm_cache",
	}
	revisionFlag = &cli.StringFlag{
		Name:  "revision",
		Usage: "revision calls are executed in, derived from the block if empty",
	}
	gasCapFlag = &cli.Uint64Flag{
		Name:  "gas",
		Usage: "gas available to each quoting call",
	}
	callerFlag = &cli.StringFlag{
		Name:  "caller",
		Usage: "address issuing the quoting calls",
		Value: "0x000000000000000000000000000000000000c0de",
	}
	tokenInFlag = &cli.StringFlag{
		Name:  "token-in",
		Usage: "symbol of a known token or address of the token sold",
		Value: "WETH",
	}
	tokenOutFlag = &cli.StringFlag{
		Name:  "token-out",
		Usage: "symbol of a known token or address of the token bought",
		Value: "USDC",
	}
	tokenInSlotFlag = &cli.IntFlag{
		Name:  "token-in-slot",
		Usage: "storage slot of the balances mapping of the token sold, -1 for the known layout",
		Value: -1,
	}
	tokenOutSlotFlag = &cli.IntFlag{
		Name:  "token-out-slot",
		Usage: "storage slot of the balances mapping of the token bought, -1 for the known layout",
		Value: -1,
	}
	mockedBalanceFlag = &cli.StringFlag{
		Name:  "mocked-balance",
		Usage: "token balance installed for pools, half of the maximum uint256 if empty",
	}
	fromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "lower end of the swept input volumes",
		Value: "0",
	}
	toFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "upper end of the swept input volumes",
		Value: "100000000000000000",
	}
	countFlag = &cli.IntFlag{
		Name:  "count",
		Usage: "number of input volumes swept",
		Value: 10,
	}
	jobsFlag = &cli.IntFlag{
		Name:  "jobs",
		Usage: "number of volumes quoted simultaneously",
		Value: runtime.NumCPU(),
	}
)

var stateFlags = []cli.Flag{
	rpcFlag,
	blockFlag,
	requestsPerSecondFlag,
	requestTimeoutFlag,
	cacheDirFlag,
	revisionFlag,
	gasCapFlag,
	callerFlag,
}

var sweepFlags = []cli.Flag{
	tokenInFlag,
	tokenOutFlag,
	tokenInSlotFlag,
	tokenOutSlotFlag,
	mockedBalanceFlag,
	fromFlag,
	toFlag,
	countFlag,
	jobsFlag,
}

func parseAmount(ctx *cli.Context, flag *cli.StringFlag) (*uint256.Int, error) {
	res, err := uint256.FromDecimal(ctx.String(flag.Name))
	if err != nil {
		return nil, fmt.Errorf("invalid value for --%s: %w", flag.Name, err)
	}
	return res, nil
}

func parseBlock(ctx *cli.Context) *big.Int {
	if number := ctx.Int64(blockFlag.Name); number > 0 {
		return big.NewInt(number)
	}
	return nil
}

// parseMockedBalance returns the token balance installed for pools. The
// default never limits a swap and never overflows on transfers into a pool.
func parseMockedBalance(ctx *cli.Context) (*uint256.Int, error) {
	if ctx.String(mockedBalanceFlag.Name) == "" {
		return new(uint256.Int).Rsh(new(uint256.Int).SetAllOne(), 1), nil
	}
	return parseAmount(ctx, mockedBalanceFlag)
}

func parseVolumes(ctx *cli.Context) (from, to *uint256.Int, err error) {
	if from, err = parseAmount(ctx, fromFlag); err != nil {
		return nil, nil, err
	}
	if to, err = parseAmount(ctx, toFlag); err != nil {
		return nil, nil, err
	}
	if to.Lt(from) {
		return nil, nil, fmt.Errorf("empty volume range [%v, %v]", from, to)
	}
	return from, to, nil
}

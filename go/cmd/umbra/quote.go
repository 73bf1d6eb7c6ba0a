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

	"github.com/Fantom-foundation/Umbra/go/codec"
	"github.com/Fantom-foundation/Umbra/go/quoting"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/urfave/cli/v2"
)

var (
	quoterFlag = &cli.StringFlag{
		Name:  "quoter",
		Usage: "address of the Uniswap V3 QuoterV2 contract",
		Value: quoterV2Address.String(),
	}
	feeFlag = &cli.UintFlag{
		Name:  "fee",
		Usage: "fee tier of the quoted pool in hundredths of a basis point",
		Value: 3000,
	}
	poolFlag = &cli.StringSliceFlag{
		Name:  "pool",
		Usage: "address of a pool to preload and to mock token balances of",
	}
)

var QuoteCmd = cli.Command{
	Action: doQuote,
	Name:   "quote",
	Usage:  "Sweep input volumes through a QuoterV2 contract",
	Flags: append(append([]cli.Flag{
		quoterFlag,
		feeFlag,
		poolFlag,
	}, stateFlags...), sweepFlags...),
}

func doQuote(ctx *cli.Context) error {
	tokenIn, err := parseToken(ctx.String(tokenInFlag.Name), ctx.Int(tokenInSlotFlag.Name))
	if err != nil {
		return err
	}
	tokenOut, err := parseToken(ctx.String(tokenOutFlag.Name), ctx.Int(tokenOutSlotFlag.Name))
	if err != nil {
		return err
	}
	quoter, err := umbra.ParseAddress(ctx.String(quoterFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid quoter: %w", err)
	}
	if fee := ctx.Uint(feeFlag.Name); fee > codec.MaxFee {
		return fmt.Errorf("fee %d exceeds the maximum of %d", fee, codec.MaxFee)
	}
	fee := uint32(ctx.Uint(feeFlag.Name))
	pools, err := parsePools(ctx, tokenIn, tokenOut, fee)
	if err != nil {
		return err
	}
	balance, err := parseMockedBalance(ctx)
	if err != nil {
		return err
	}
	from, to, err := parseVolumes(ctx)
	if err != nil {
		return err
	}

	backend, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	setup := overlaySetup{
		preload:  append([]umbra.Address{quoter, tokenIn.Address, tokenOut.Address}, pools...),
		balances: mockPoolBalances(balance, pools, tokenIn, tokenOut),
	}
	route := quoting.Route{{
		Target: quoter,
		Path: quoting.QuoterPath{
			TokenIn:  tokenIn.Address,
			TokenOut: tokenOut.Address,
			Fee:      fee,
		},
	}}
	return runSweep(ctx, backend, setup, route, from, to, []token{tokenIn, tokenOut})
}

// parsePools returns the pools given on the command line. Without any, the
// known WETH/USDC pool of the fee tier is used if it exists.
func parsePools(ctx *cli.Context, tokenIn, tokenOut token, fees ...uint32) ([]umbra.Address, error) {
	var res []umbra.Address
	for _, s := range ctx.StringSlice(poolFlag.Name) {
		pool, err := umbra.ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("invalid pool %q: %w", s, err)
		}
		res = append(res, pool)
	}
	if len(res) > 0 || !isWethUsdc(tokenIn, tokenOut) {
		return res, nil
	}
	for _, fee := range fees {
		if pool, found := wethUsdcPools[fee]; found {
			res = append(res, pool)
		}
	}
	return res, nil
}

func isWethUsdc(a, b token) bool {
	weth, usdc := knownTokens["WETH"].Address, knownTokens["USDC"].Address
	return (a.Address == weth && b.Address == usdc) || (a.Address == usdc && b.Address == weth)
}

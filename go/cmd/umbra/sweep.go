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
	"os"
	"strings"

	"github.com/Fantom-foundation/Umbra/go/quoting"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

var (
	helperFlag = &cli.StringFlag{
		Name:  "helper",
		Usage: "address the helper contract is installed at",
		Value: "0x00000000000000000000000000000000000f00d0",
	}
	helperCodeFlag = &cli.PathFlag{
		Name:     "helper-code",
		Usage:    "file holding the hex encoded runtime code of the helper contract",
		Required: true,
	}
	roundTripFlag = &cli.BoolFlag{
		Name:  "round-trip",
		Usage: "swap the output back into the input token through the last pool and report profits",
	}
)

var SweepCmd = cli.Command{
	Action: doSweep,
	Name:   "sweep",
	Usage:  "Sweep input volumes through a helper contract reporting swap results by reverting",
	Flags: append(append([]cli.Flag{
		helperFlag,
		helperCodeFlag,
		poolFlag,
		roundTripFlag,
	}, stateFlags...), sweepFlags...),
}

func doSweep(ctx *cli.Context) error {
	tokenIn, err := parseToken(ctx.String(tokenInFlag.Name), ctx.Int(tokenInSlotFlag.Name))
	if err != nil {
		return err
	}
	tokenOut, err := parseToken(ctx.String(tokenOutFlag.Name), ctx.Int(tokenOutSlotFlag.Name))
	if err != nil {
		return err
	}
	helper, err := umbra.ParseAddress(ctx.String(helperFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid helper address: %w", err)
	}
	code, err := readCode(ctx.Path(helperCodeFlag.Name))
	if err != nil {
		return err
	}
	pools, err := parsePools(ctx, tokenIn, tokenOut, 500, 3000)
	if err != nil {
		return err
	}
	if len(pools) == 0 {
		return fmt.Errorf("no pool given")
	}
	balance, err := parseMockedBalance(ctx)
	if err != nil {
		return err
	}
	from, to, err := parseVolumes(ctx)
	if err != nil {
		return err
	}

	route := quoting.Route{{
		Target: helper,
		Path:   quoting.HelperPath{Pool: pools[0], TokenIn: tokenIn.Address, TokenOut: tokenOut.Address},
	}}
	tokens := []token{tokenIn, tokenOut}
	if ctx.Bool(roundTripFlag.Name) {
		route = append(route, quoting.Hop{
			Target: helper,
			Path:   quoting.HelperPath{Pool: pools[len(pools)-1], TokenIn: tokenOut.Address, TokenOut: tokenIn.Address},
		})
		tokens = append(tokens, tokenIn)
	}

	backend, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	setup := overlaySetup{
		preload:  append([]umbra.Address{tokenIn.Address, tokenOut.Address}, pools...),
		code:     map[umbra.Address][]byte{helper: code},
		balances: mockPoolBalances(balance, pools, tokenIn, tokenOut),
	}
	return runSweep(ctx, backend, setup, route, from, to, tokens)
}

// readCode reads hex encoded code from a file, with or without 0x prefix.
func readCode(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read code: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if !strings.HasPrefix(text, "0x") {
		text = "0x" + text
	}
	code, err := hexutil.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("invalid code in %s: %w", path, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("no code in %s", path)
	}
	return code, nil
}

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
	"strconv"
	"strings"

	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// token is an ERC-20 token whose balances are stored in a mapping at
// BalanceSlot. A negative slot marks an unknown storage layout.
type token struct {
	Symbol      string
	Address     umbra.Address
	BalanceSlot int
}

// Known contracts on Ethereum's main net.
var (
	knownTokens = map[string]token{
		"WETH": {Symbol: "WETH", Address: mustParseAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), BalanceSlot: 3},
		"USDC": {Symbol: "USDC", Address: mustParseAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), BalanceSlot: 9},
		"USDT": {Symbol: "USDT", Address: mustParseAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), BalanceSlot: 2},
		"DAI":  {Symbol: "DAI", Address: mustParseAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), BalanceSlot: 2},
	}

	quoterV2Address = mustParseAddress("0x61fFE014bA17989E743c5F6cB21bF9697530B21e")

	// Uniswap V3 WETH/USDC pools by fee tier.
	wethUsdcPools = map[uint32]umbra.Address{
		500:  mustParseAddress("0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640"),
		3000: mustParseAddress("0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8"),
	}
)

func mustParseAddress(s string) umbra.Address {
	res, err := umbra.ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return res
}

// parseToken resolves a token given by symbol or address. Known addresses
// are reported with their symbol and storage layout. An explicit balance
// slot overrides the known layout if it is not negative.
func parseToken(s string, balanceSlot int) (token, error) {
	res, found := knownTokens[strings.ToUpper(s)]
	if !found {
		addr, err := umbra.ParseAddress(s)
		if err != nil {
			return token{}, fmt.Errorf("unknown token %q, use an address or one of %v", s, knownSymbols())
		}
		res = token{Symbol: addr.String(), Address: addr, BalanceSlot: -1}
		for _, known := range knownTokens {
			if known.Address == addr {
				res = known
			}
		}
	}
	if balanceSlot >= 0 {
		res.BalanceSlot = balanceSlot
	}
	return res, nil
}

func knownSymbols() []string {
	res := maps.Keys(knownTokens)
	slices.Sort(res)
	return res
}

var TokensCmd = cli.Command{
	Action: doListTokens,
	Name:   "tokens",
	Usage:  "List tokens known by symbol",
}

func doListTokens(ctx *cli.Context) error {
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"Symbol", "Address", "Balance Slot"})
	for _, symbol := range knownSymbols() {
		known := knownTokens[symbol]
		table.Append([]string{symbol, known.Address.String(), strconv.Itoa(known.BalanceSlot)})
	}
	table.Render()
	return nil
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package codec translates swap quote requests into contract call data and
// decodes the results of the resulting calls.
package codec

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// quoterABI covers the entry points of the quoter and the quote helper
// contracts used for simulated swaps.
const quoterABI = `[
	{"type":"function","name":"quoteExactInputSingle","stateMutability":"nonpayable",
	 "inputs":[{"name":"params","type":"tuple","internalType":"struct IQuoterV2.QuoteExactInputSingleParams","components":[
		{"name":"tokenIn","type":"address"},
		{"name":"tokenOut","type":"address"},
		{"name":"amountIn","type":"uint256"},
		{"name":"fee","type":"uint24"},
		{"name":"sqrtPriceLimitX96","type":"uint160"}]}],
	 "outputs":[
		{"name":"amountOut","type":"uint256"},
		{"name":"sqrtPriceX96After","type":"uint160"},
		{"name":"initializedTicksCrossed","type":"uint32"},
		{"name":"gasEstimate","type":"uint256"}]},
	{"type":"function","name":"getAmountOut","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"pool","type":"address"},
		{"name":"zeroForOne","type":"bool"},
		{"name":"amountIn","type":"uint256"}],
	 "outputs":[]}
]`

const (
	quoteMethod     = "quoteExactInputSingle"
	amountOutMethod = "getAmountOut"
)

var contractABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(quoterABI))
	if err != nil {
		panic(fmt.Errorf("failed to parse quoterABI: %w", err))
	}
	for _, name := range []string{quoteMethod, amountOutMethod} {
		if _, exist := parsed.Methods[name]; !exist {
			panic("missing quoter method " + name)
		}
	}
	contractABI = parsed
}

// QuoteSelector returns the 4-byte selector of quoteExactInputSingle.
func QuoteSelector() []byte {
	return append([]byte(nil), contractABI.Methods[quoteMethod].ID...)
}

// AmountOutSelector returns the 4-byte selector of getAmountOut.
func AmountOutSelector() []byte {
	return append([]byte(nil), contractABI.Methods[amountOutMethod].ID...)
}

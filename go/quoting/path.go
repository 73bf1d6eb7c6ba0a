// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package quoting

import (
	"github.com/Fantom-foundation/Umbra/go/codec"
	"github.com/Fantom-foundation/Umbra/go/processor"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/holiman/uint256"
)

// Path describes how a single swap is quoted by a quoting contract.
type Path interface {
	// Encode produces the calldata quoting a swap of amountIn.
	Encode(amountIn *uint256.Int) ([]byte, error)
	// Decode extracts the amount out from the outcome of a quoting call.
	Decode(outcome processor.Outcome) (*uint256.Int, error)
}

// QuoterPath quotes a single-pool swap through a Uniswap V3 QuoterV2
// contract, which reports results through regular return data.
type QuoterPath struct {
	TokenIn  umbra.Address
	TokenOut umbra.Address
	Fee      uint32
}

func (p QuoterPath) Encode(amountIn *uint256.Int) ([]byte, error) {
	return codec.EncodeQuoteRequest(codec.QuoteRequest{
		TokenIn:  p.TokenIn,
		TokenOut: p.TokenOut,
		AmountIn: amountIn,
		Fee:      p.Fee,
	})
}

func (p QuoterPath) Decode(outcome processor.Outcome) (*uint256.Int, error) {
	if outcome.Kind != processor.Success {
		return nil, &UnexpectedOutcomeError{Want: processor.Success, Got: outcome}
	}
	return codec.DecodeQuoteResponse(outcome.Output)
}

// HelperPath quotes a swap on a given pool through a helper contract
// performing the swap and reporting the resulting deltas by reverting.
type HelperPath struct {
	Pool     umbra.Address
	TokenIn  umbra.Address
	TokenOut umbra.Address
}

func (p HelperPath) Encode(amountIn *uint256.Int) ([]byte, error) {
	return codec.EncodeAmountOutRequest(codec.AmountOutRequest{
		Pool:     p.Pool,
		TokenIn:  p.TokenIn,
		TokenOut: p.TokenOut,
		AmountIn: amountIn,
	})
}

func (p HelperPath) Decode(outcome processor.Outcome) (*uint256.Int, error) {
	if outcome.Kind != processor.Revert {
		return nil, &UnexpectedOutcomeError{Want: processor.Revert, Got: outcome}
	}
	return codec.DecodeAmountOutResponse(outcome.Output)
}

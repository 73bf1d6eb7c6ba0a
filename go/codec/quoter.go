// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package codec

import (
	"fmt"
	"math/big"

	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// MaxFee is the largest fee tier representable as uint24.
const MaxFee = 1<<24 - 1

var (
	// MinSqrtPriceLimit is one above the smallest sqrt price a pool accepts.
	MinSqrtPriceLimit = uint256.NewInt(4295128749)
	// MaxSqrtPriceLimit is one below the largest sqrt price a pool accepts.
	MaxSqrtPriceLimit = uint256.MustFromDecimal("1461446703485210103287273052203988822378723970341")
)

// QuoteRequest describes an exact-input single-pool swap to be quoted.
type QuoteRequest struct {
	TokenIn  umbra.Address
	TokenOut umbra.Address
	AmountIn *uint256.Int
	Fee      uint32
}

// QuoteResult is the full result of a quoteExactInputSingle call.
type QuoteResult struct {
	AmountOut               *uint256.Int
	SqrtPriceX96After       *uint256.Int
	InitializedTicksCrossed uint32
	GasEstimate             *uint256.Int
}

// ZeroForOne reports whether a swap from tokenIn to tokenOut moves the pool
// from token0 to token1, where token0 is the numerically lower address.
func ZeroForOne(tokenIn, tokenOut umbra.Address) bool {
	return tokenIn.Compare(tokenOut) < 0
}

// SqrtPriceLimit returns the price bound that lets a swap in the given
// direction run to completion.
func SqrtPriceLimit(zeroForOne bool) *uint256.Int {
	if zeroForOne {
		return new(uint256.Int).Set(MinSqrtPriceLimit)
	}
	return new(uint256.Int).Set(MaxSqrtPriceLimit)
}

// quoteParams mirrors QuoteExactInputSingleParams for ABI packing.
type quoteParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	AmountIn          *big.Int
	Fee               *big.Int
	SqrtPriceLimitX96 *big.Int
}

// EncodeQuoteRequest produces the call data of a quoteExactInputSingle call
// for the given swap. The price limit is derived from the swap direction.
func EncodeQuoteRequest(request QuoteRequest) ([]byte, error) {
	if request.Fee > MaxFee {
		return nil, &EncodeError{
			What: "quote request",
			Err:  fmt.Errorf("%w: fee %d exceeds %d", ErrValueOutOfRange, request.Fee, MaxFee),
		}
	}
	amountIn := request.AmountIn
	if amountIn == nil {
		amountIn = new(uint256.Int)
	}
	limit := SqrtPriceLimit(ZeroForOne(request.TokenIn, request.TokenOut))
	data, err := contractABI.Pack(quoteMethod, quoteParams{
		TokenIn:           common.Address(request.TokenIn),
		TokenOut:          common.Address(request.TokenOut),
		AmountIn:          amountIn.ToBig(),
		Fee:               new(big.Int).SetUint64(uint64(request.Fee)),
		SqrtPriceLimitX96: limit.ToBig(),
	})
	if err != nil {
		return nil, &EncodeError{What: "quote request", Err: err}
	}
	return data, nil
}

// DecodeQuoteResult decodes the return data of a quoteExactInputSingle call.
func DecodeQuoteResult(data []byte) (QuoteResult, error) {
	fail := func(err error) (QuoteResult, error) {
		return QuoteResult{}, &DecodeError{What: "quote result", Err: err}
	}
	if len(data) != 4*32 {
		return fail(fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedPayload, len(data), 4*32))
	}
	values, err := contractABI.Unpack(quoteMethod, data)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}
	amountOut, ok1 := values[0].(*big.Int)
	sqrtPrice, ok2 := values[1].(*big.Int)
	ticks, ok3 := values[2].(uint32)
	gasEstimate, ok4 := values[3].(*big.Int)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return fail(fmt.Errorf("%w: unexpected result types", ErrMalformedPayload))
	}
	// uint160 is not range checked while unpacking.
	if sqrtPrice.BitLen() > 160 {
		return fail(fmt.Errorf("%w: sqrt price exceeds 160 bits", ErrValueOutOfRange))
	}
	return QuoteResult{
		AmountOut:               uint256.MustFromBig(amountOut),
		SqrtPriceX96After:       uint256.MustFromBig(sqrtPrice),
		InitializedTicksCrossed: ticks,
		GasEstimate:             uint256.MustFromBig(gasEstimate),
	}, nil
}

// DecodeQuoteResponse decodes the amount out of a quoteExactInputSingle
// call, ignoring the remaining result fields.
func DecodeQuoteResponse(data []byte) (*uint256.Int, error) {
	result, err := DecodeQuoteResult(data)
	if err != nil {
		return nil, err
	}
	return result.AmountOut, nil
}

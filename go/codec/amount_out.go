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

	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// AmountOutRequest describes a swap quoted through the quote helper, which
// performs the swap against a pool and reports the resulting token deltas
// by reverting.
type AmountOutRequest struct {
	Pool     umbra.Address
	TokenIn  umbra.Address
	TokenOut umbra.Address
	AmountIn *uint256.Int
}

// EncodeAmountOutRequest produces the call data of a getAmountOut call. The
// swap direction is derived from the token addresses.
func EncodeAmountOutRequest(request AmountOutRequest) ([]byte, error) {
	amountIn := request.AmountIn
	if amountIn == nil {
		amountIn = new(uint256.Int)
	}
	data, err := contractABI.Pack(amountOutMethod, common.Address(request.Pool), ZeroForOne(request.TokenIn, request.TokenOut), amountIn.ToBig())
	if err != nil {
		return nil, &EncodeError{What: "amount out request", Err: err}
	}
	return data, nil
}

// DecodeAmountOutResponse interprets the revert payload of a getAmountOut
// call. The payload ends in the two signed 128-bit token deltas of the
// swap, one word each. The delta paid to the caller is negative; its
// magnitude is the amount out. Deltas of the same strict sign describe no
// valid swap and are rejected.
func DecodeAmountOutResponse(payload []byte) (*uint256.Int, error) {
	fail := func(err error) (*uint256.Int, error) {
		return nil, &DecodeError{What: "amount out", Err: err}
	}
	if len(payload) < 64 {
		return fail(fmt.Errorf("%w: got %d bytes, need at least 64", ErrMalformedPayload, len(payload)))
	}
	tail := payload[len(payload)-64:]
	delta0, err := readInt128(tail[:32])
	if err != nil {
		return fail(err)
	}
	delta1, err := readInt128(tail[32:])
	if err != nil {
		return fail(err)
	}
	sign0, sign1 := delta0.Sign(), delta1.Sign()
	if sign0 != 0 && sign0 == sign1 {
		return fail(fmt.Errorf("%w: %v and %v", ErrSameSignDeltas, toSigned(delta0), toSigned(delta1)))
	}
	paid := delta0
	if delta1.Slt(delta0) {
		paid = delta1
	}
	return new(uint256.Int).Neg(paid), nil
}

// readInt128 reads a word holding a sign-extended int128.
func readInt128(word []byte) (*uint256.Int, error) {
	extension := byte(0)
	if word[16]&0x80 != 0 {
		extension = 0xff
	}
	for _, cur := range word[:16] {
		if cur != extension {
			return nil, fmt.Errorf("%w: word 0x%x is not an int128", ErrValueOutOfRange, word)
		}
	}
	return new(uint256.Int).SetBytes32(word), nil
}

func toSigned(value *uint256.Int) string {
	if value.Sign() < 0 {
		return "-" + new(uint256.Int).Neg(value).Dec()
	}
	return value.Dec()
}

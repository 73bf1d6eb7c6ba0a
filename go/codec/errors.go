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
)

const (
	ErrMalformedPayload = umbra.ConstError("malformed payload")
	ErrSameSignDeltas   = umbra.ConstError("token deltas share the same sign")
	ErrValueOutOfRange  = umbra.ConstError("value out of range")
)

// DecodeError is returned for call results that can not be interpreted.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError is returned for requests that can not be represented in the
// target contract's ABI.
type EncodeError struct {
	What string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode %s: %v", e.What, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package remote

import (
	"fmt"

	"github.com/Fantom-foundation/Umbra/go/umbra"
)

// RemoteError is reported when a request to the remote node fails.
type RemoteError struct {
	Method  string
	Address umbra.Address
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s of %v failed: %v", e.Method, e.Address, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

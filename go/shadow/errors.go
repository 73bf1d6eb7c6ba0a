// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package shadow

import (
	"fmt"

	"github.com/Fantom-foundation/Umbra/go/umbra"
)

// StateFetchError is reported when the overlay fails to load an account or a
// storage slot from its remote source.
type StateFetchError struct {
	Address umbra.Address
	Key     *umbra.Key // nil for account loads
	Err     error
}

func (e *StateFetchError) Error() string {
	if e.Key != nil {
		return fmt.Sprintf("failed to fetch storage %v of %v: %v", *e.Key, e.Address, e.Err)
	}
	return fmt.Sprintf("failed to fetch account %v: %v", e.Address, e.Err)
}

func (e *StateFetchError) Unwrap() error {
	return e.Err
}

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
	"context"
	"fmt"

	"github.com/Fantom-foundation/Umbra/go/bytecode"
	"github.com/Fantom-foundation/Umbra/go/shadow"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/holiman/uint256"
)

// Preload installs the accounts at the given addresses with their code and
// a zero balance and nonce. Code is obtained through source, which consults
// fetcher only on cache misses. Balances and nonces are never fetched.
func Preload(
	ctx context.Context,
	overlay *shadow.Overlay,
	source shadow.CodeSource,
	fetcher bytecode.Fetcher,
	addrs ...umbra.Address,
) error {
	for _, addr := range addrs {
		code, err := source.GetOrFetch(ctx, addr, fetcher)
		if err != nil {
			return fmt.Errorf("failed to preload %v: %w", addr, err)
		}
		overlay.InjectAccount(addr, code)
	}
	return nil
}

// MockBalance sets the balance of holder in an ERC-20 token storing balances
// in a mapping declared at balanceSlot.
func MockBalance(overlay *shadow.Overlay, token umbra.Address, balanceSlot umbra.Word, holder umbra.Address, amount *uint256.Int) {
	overlay.InjectMappingSlot(token, balanceSlot, umbra.AddressToWord(holder), umbra.WordFromUint256(amount))
}

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
	"bytes"

	"github.com/Fantom-foundation/Umbra/go/umbra"
)

// MappingSlot computes the storage key of the entry for key in a Solidity
// mapping declared at slot: keccak256(key ++ slot).
func MappingSlot(key, slot umbra.Word) umbra.Key {
	return umbra.Key(umbra.Keccak256(key[:], slot[:]))
}

// InjectAccount installs an account with the given code and zero balance
// and nonce at addr, replacing any previously loaded or injected account.
// Storage of the account is retained.
func (o *Overlay) InjectAccount(addr umbra.Address, code []byte) {
	o.accounts[addr] = newAccount(umbra.Value{}, 0, bytes.Clone(code))
	delete(o.balances, addr)
	delete(o.nonces, addr)
}

// InjectStorage sets a storage slot. The slot is never fetched from the
// remote source afterwards.
func (o *Overlay) InjectStorage(addr umbra.Address, key umbra.Key, value umbra.Word) {
	o.storage[slot{addr, key}] = value
}

// InjectMappingSlot sets the entry for mappingKey of the mapping declared at
// declaredSlot in contract, e.g. the balance of an address in an ERC-20
// token.
func (o *Overlay) InjectMappingSlot(contract umbra.Address, declaredSlot, mappingKey, value umbra.Word) {
	o.InjectStorage(contract, MappingSlot(mappingKey, declaredSlot), value)
}

// InjectBalance overrides the balance of addr. If the account is not loaded
// yet, the override is applied once it is.
func (o *Overlay) InjectBalance(addr umbra.Address, value umbra.Value) {
	if account, found := o.accounts[addr]; found {
		account.Balance = value
		return
	}
	o.balances[addr] = value
}

// InjectNonce overrides the nonce of addr. If the account is not loaded yet,
// the override is applied once it is.
func (o *Overlay) InjectNonce(addr umbra.Address, nonce uint64) {
	if account, found := o.accounts[addr]; found {
		account.Nonce = nonce
		return
	}
	o.nonces[addr] = nonce
}

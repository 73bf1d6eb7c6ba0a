// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"bytes"
	"context"

	"github.com/Fantom-foundation/Umbra/go/shadow"
	"github.com/Fantom-foundation/Umbra/go/umbra"
)

type slotKey struct {
	addr umbra.Address
	key  umbra.Key
}

// transactionContext is a journaled write buffer on top of an overlay. Reads
// fall through to the overlay, writes are retained in the buffer and are
// dropped together with the context. This way, calls never modify the state
// observed by later calls.
type transactionContext struct {
	ctx     context.Context
	overlay *shadow.Overlay

	// onFailure is invoked on the first failure to load state.
	onFailure func()
	err       error

	accounts  map[umbra.Address]*shadow.Account
	storage   map[slotKey]umbra.Word
	transient map[slotKey]umbra.Word
	created   map[umbra.Address]struct{}
	destroyed map[umbra.Address]struct{}

	accessedAccounts map[umbra.Address]struct{}
	accessedSlots    map[slotKey]struct{}

	logs []umbra.Log

	// journal holds the undo operations of all modifications in order.
	journal []func()
}

var _ umbra.TransactionContext = (*transactionContext)(nil)

func newTransactionContext(ctx context.Context, overlay *shadow.Overlay) *transactionContext {
	return &transactionContext{
		ctx:              ctx,
		overlay:          overlay,
		accounts:         map[umbra.Address]*shadow.Account{},
		storage:          map[slotKey]umbra.Word{},
		transient:        map[slotKey]umbra.Word{},
		created:          map[umbra.Address]struct{}{},
		destroyed:        map[umbra.Address]struct{}{},
		accessedAccounts: map[umbra.Address]struct{}{},
		accessedSlots:    map[slotKey]struct{}{},
	}
}

func (c *transactionContext) Err() error {
	return c.err
}

func (c *transactionContext) fail(err error) {
	if c.err != nil {
		return
	}
	c.err = err
	if c.onFailure != nil {
		c.onFailure()
	}
}

func (c *transactionContext) record(undo func()) {
	c.journal = append(c.journal, undo)
}

func (c *transactionContext) CreateSnapshot() umbra.Snapshot {
	return umbra.Snapshot(len(c.journal))
}

func (c *transactionContext) RestoreSnapshot(snapshot umbra.Snapshot) {
	for len(c.journal) > int(snapshot) {
		last := len(c.journal) - 1
		c.journal[last]()
		c.journal = c.journal[:last]
	}
}

// --- accounts ---

func (c *transactionContext) account(addr umbra.Address) shadow.Account {
	if account, found := c.accounts[addr]; found {
		return *account
	}
	// After a failure, results are discarded anyway; avoid further fetches.
	if c.err != nil {
		return shadow.Account{}
	}
	account, err := c.overlay.Account(c.ctx, addr)
	if err != nil {
		c.fail(err)
		return shadow.Account{}
	}
	return account
}

func (c *transactionContext) modifyAccount(addr umbra.Address, modify func(*shadow.Account)) {
	previous, buffered := c.accounts[addr]
	next := c.account(addr)
	modify(&next)
	c.accounts[addr] = &next
	c.record(func() {
		if buffered {
			c.accounts[addr] = previous
		} else {
			delete(c.accounts, addr)
		}
	})
}

func (c *transactionContext) AccountExists(addr umbra.Address) bool {
	if _, found := c.created[addr]; found {
		return true
	}
	return !c.account(addr).IsEmpty()
}

func (c *transactionContext) CreateAccount(addr umbra.Address) {
	c.modifyAccount(addr, func(account *shadow.Account) {
		account.Nonce = 0
		account.Code = nil
		account.CodeHash = umbra.EmptyCodeHash
	})
	if _, found := c.created[addr]; !found {
		c.created[addr] = struct{}{}
		c.record(func() { delete(c.created, addr) })
	}
}

func (c *transactionContext) IsNewContract(addr umbra.Address) bool {
	_, found := c.created[addr]
	return found
}

func (c *transactionContext) GetBalance(addr umbra.Address) umbra.Value {
	return c.account(addr).Balance
}

func (c *transactionContext) SetBalance(addr umbra.Address, value umbra.Value) {
	c.modifyAccount(addr, func(account *shadow.Account) {
		account.Balance = value
	})
}

func (c *transactionContext) GetNonce(addr umbra.Address) uint64 {
	return c.account(addr).Nonce
}

func (c *transactionContext) SetNonce(addr umbra.Address, nonce uint64) {
	c.modifyAccount(addr, func(account *shadow.Account) {
		account.Nonce = nonce
	})
}

func (c *transactionContext) GetCode(addr umbra.Address) umbra.Code {
	return c.account(addr).Code
}

func (c *transactionContext) GetCodeHash(addr umbra.Address) umbra.Hash {
	return c.account(addr).CodeHash
}

func (c *transactionContext) GetCodeSize(addr umbra.Address) int {
	return len(c.account(addr).Code)
}

func (c *transactionContext) SetCode(addr umbra.Address, code umbra.Code) {
	code = bytes.Clone(code)
	c.modifyAccount(addr, func(account *shadow.Account) {
		account.Code = code
		account.CodeHash = umbra.Keccak256(code)
	})
}

func (c *transactionContext) SelfDestruct(addr umbra.Address) bool {
	if _, found := c.destroyed[addr]; found {
		return false
	}
	c.destroyed[addr] = struct{}{}
	c.record(func() { delete(c.destroyed, addr) })
	c.SetBalance(addr, umbra.Value{})
	return true
}

func (c *transactionContext) HasSelfDestructed(addr umbra.Address) bool {
	_, found := c.destroyed[addr]
	return found
}

// --- storage ---

func (c *transactionContext) GetCommittedStorage(addr umbra.Address, key umbra.Key) umbra.Word {
	if _, found := c.created[addr]; found || c.err != nil {
		return umbra.Word{}
	}
	value, err := c.overlay.Storage(c.ctx, addr, key)
	if err != nil {
		c.fail(err)
		return umbra.Word{}
	}
	return value
}

func (c *transactionContext) GetStorage(addr umbra.Address, key umbra.Key) umbra.Word {
	if value, found := c.storage[slotKey{addr, key}]; found {
		return value
	}
	return c.GetCommittedStorage(addr, key)
}

func (c *transactionContext) SetStorage(addr umbra.Address, key umbra.Key, value umbra.Word) {
	c.setWord(c.storage, slotKey{addr, key}, value)
}

func (c *transactionContext) GetTransientStorage(addr umbra.Address, key umbra.Key) umbra.Word {
	return c.transient[slotKey{addr, key}]
}

func (c *transactionContext) SetTransientStorage(addr umbra.Address, key umbra.Key, value umbra.Word) {
	c.setWord(c.transient, slotKey{addr, key}, value)
}

func (c *transactionContext) setWord(words map[slotKey]umbra.Word, slot slotKey, value umbra.Word) {
	previous, found := words[slot]
	words[slot] = value
	c.record(func() {
		if found {
			words[slot] = previous
		} else {
			delete(words, slot)
		}
	})
}

// --- access lists ---

func (c *transactionContext) AccessAccount(addr umbra.Address) umbra.AccessStatus {
	if _, found := c.accessedAccounts[addr]; found {
		return umbra.WarmAccess
	}
	c.accessedAccounts[addr] = struct{}{}
	c.record(func() { delete(c.accessedAccounts, addr) })
	return umbra.ColdAccess
}

func (c *transactionContext) AccessStorage(addr umbra.Address, key umbra.Key) umbra.AccessStatus {
	c.AccessAccount(addr)
	slot := slotKey{addr, key}
	if _, found := c.accessedSlots[slot]; found {
		return umbra.WarmAccess
	}
	c.accessedSlots[slot] = struct{}{}
	c.record(func() { delete(c.accessedSlots, slot) })
	return umbra.ColdAccess
}

func (c *transactionContext) IsAddressInAccessList(addr umbra.Address) bool {
	_, found := c.accessedAccounts[addr]
	return found
}

func (c *transactionContext) IsSlotInAccessList(addr umbra.Address, key umbra.Key) (addressPresent, slotPresent bool) {
	_, addressPresent = c.accessedAccounts[addr]
	_, slotPresent = c.accessedSlots[slotKey{addr, key}]
	return
}

// --- logs and block data ---

func (c *transactionContext) EmitLog(log umbra.Log) {
	c.logs = append(c.logs, log)
	size := len(c.logs) - 1
	c.record(func() { c.logs = c.logs[:size] })
}

func (c *transactionContext) GetLogs() []umbra.Log {
	return append([]umbra.Log(nil), c.logs...)
}

// GetBlockHash reports the zero hash for all blocks. Historic block hashes
// are not part of the shadowed state.
func (c *transactionContext) GetBlockHash(int64) umbra.Hash {
	return umbra.Hash{}
}

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
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/stateless"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	geth "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/trie/utils"
	"github.com/holiman/uint256"
)

// Quote calls carry no value, so neither function loads the accounts
// involved unless a contract forwards value itself.

func transferFunc(db geth.StateDB, from, to common.Address, value *uint256.Int) {
	if value.IsZero() {
		return
	}
	db.SubBalance(from, value, tracing.BalanceChangeTransfer)
	db.AddBalance(to, value, tracing.BalanceChangeTransfer)
}

func canTransferFunc(db geth.StateDB, from common.Address, value *uint256.Int) bool {
	return value.IsZero() || db.GetBalance(from).Cmp(value) >= 0
}

// stateDbAdapter exposes a per-call transaction context to the geth EVM.
// Refunds are tracked here since the context has no notion of them.
type stateDbAdapter struct {
	context       umbra.TransactionContext
	refund        uint64
	refundBackups map[umbra.Snapshot]uint64
}

var _ geth.StateDB = (*stateDbAdapter)(nil)

func newStateDbAdapter(context umbra.TransactionContext) *stateDbAdapter {
	return &stateDbAdapter{
		context:       context,
		refundBackups: map[umbra.Snapshot]uint64{},
	}
}

// CreateAccount is a no-op; accounts come into existence with their first
// balance or code.
func (s *stateDbAdapter) CreateAccount(common.Address) {}

func (s *stateDbAdapter) CreateContract(addr common.Address) {
	s.context.CreateAccount(umbra.Address(addr))
}

func (s *stateDbAdapter) SubBalance(addr common.Address, diff *uint256.Int, _ tracing.BalanceChangeReason) {
	s.updateBalance(umbra.Address(addr), diff, umbra.Sub)
}

func (s *stateDbAdapter) AddBalance(addr common.Address, diff *uint256.Int, _ tracing.BalanceChangeReason) {
	s.updateBalance(umbra.Address(addr), diff, umbra.Add)
}

// updateBalance applies a non-zero balance change. Zero changes would only
// touch the account, which has no observable effect on a call.
func (s *stateDbAdapter) updateBalance(addr umbra.Address, diff *uint256.Int, op func(a, b umbra.Value) umbra.Value) {
	if diff.IsZero() {
		return
	}
	s.context.SetBalance(addr, op(s.context.GetBalance(addr), umbra.ValueFromUint256(diff)))
}

func (s *stateDbAdapter) GetBalance(addr common.Address) *uint256.Int {
	value := s.context.GetBalance(umbra.Address(addr))
	return value.ToUint256()
}

func (s *stateDbAdapter) GetNonce(addr common.Address) uint64 {
	return s.context.GetNonce(umbra.Address(addr))
}

func (s *stateDbAdapter) SetNonce(addr common.Address, nonce uint64) {
	s.context.SetNonce(umbra.Address(addr), nonce)
}

func (s *stateDbAdapter) GetCodeHash(addr common.Address) common.Hash {
	return common.Hash(s.context.GetCodeHash(umbra.Address(addr)))
}

func (s *stateDbAdapter) GetCode(addr common.Address) []byte {
	return s.context.GetCode(umbra.Address(addr))
}

func (s *stateDbAdapter) SetCode(addr common.Address, code []byte) {
	s.context.SetCode(umbra.Address(addr), code)
}

func (s *stateDbAdapter) GetCodeSize(addr common.Address) int {
	return s.context.GetCodeSize(umbra.Address(addr))
}

func (s *stateDbAdapter) AddRefund(value uint64) {
	s.refund += value
}

func (s *stateDbAdapter) SubRefund(value uint64) {
	s.refund -= value
}

func (s *stateDbAdapter) GetRefund() uint64 {
	return s.refund
}

func (s *stateDbAdapter) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	return common.Hash(s.context.GetCommittedStorage(umbra.Address(addr), umbra.Key(key)))
}

func (s *stateDbAdapter) GetState(addr common.Address, key common.Hash) common.Hash {
	return common.Hash(s.context.GetStorage(umbra.Address(addr), umbra.Key(key)))
}

func (s *stateDbAdapter) SetState(addr common.Address, key common.Hash, value common.Hash) {
	s.context.SetStorage(umbra.Address(addr), umbra.Key(key), umbra.Word(value))
}

func (s *stateDbAdapter) GetStorageRoot(addr common.Address) common.Hash {
	// Only consulted to detect address collisions on contract creation,
	// where the zero hash reports an empty storage.
	return common.Hash{}
}

func (s *stateDbAdapter) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	return common.Hash(s.context.GetTransientStorage(umbra.Address(addr), umbra.Key(key)))
}

func (s *stateDbAdapter) SetTransientState(addr common.Address, key, value common.Hash) {
	s.context.SetTransientStorage(umbra.Address(addr), umbra.Key(key), umbra.Word(value))
}

func (s *stateDbAdapter) SelfDestruct(addr common.Address) {
	s.context.SelfDestruct(umbra.Address(addr))
}

func (s *stateDbAdapter) HasSelfDestructed(addr common.Address) bool {
	return s.context.HasSelfDestructed(umbra.Address(addr))
}

// Selfdestruct6780 only destroys contracts created in the ongoing call (EIP-6780).
func (s *stateDbAdapter) Selfdestruct6780(addr common.Address) {
	if s.context.IsNewContract(umbra.Address(addr)) {
		s.context.SelfDestruct(umbra.Address(addr))
	}
}

func (s *stateDbAdapter) Exist(addr common.Address) bool {
	return s.context.AccountExists(umbra.Address(addr))
}

func (s *stateDbAdapter) Empty(addr common.Address) bool {
	return s.GetBalance(addr).IsZero() && s.GetNonce(addr) == 0 && s.GetCodeSize(addr) == 0
}

func (s *stateDbAdapter) AddressInAccessList(addr common.Address) bool {
	return s.context.IsAddressInAccessList(umbra.Address(addr))
}

func (s *stateDbAdapter) SlotInAccessList(addr common.Address, slot common.Hash) (addressOk bool, slotOk bool) {
	return s.context.IsSlotInAccessList(umbra.Address(addr), umbra.Key(slot))
}

func (s *stateDbAdapter) AddAddressToAccessList(addr common.Address) {
	s.context.AccessAccount(umbra.Address(addr))
}

func (s *stateDbAdapter) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	s.context.AccessStorage(umbra.Address(addr), umbra.Key(slot))
}

// Prepare warms up the accounts and slots accessible at no extra cost at the
// start of a call (EIP-2929, EIP-2930, EIP-3651).
func (s *stateDbAdapter) Prepare(rules params.Rules, sender, coinbase common.Address, dest *common.Address, precompiles []common.Address, txAccesses types.AccessList) {
	if !rules.IsBerlin {
		return
	}
	s.context.AccessAccount(umbra.Address(sender))
	if dest != nil {
		s.context.AccessAccount(umbra.Address(*dest))
	}
	for _, addr := range precompiles {
		s.context.AccessAccount(umbra.Address(addr))
	}
	for _, el := range txAccesses {
		s.context.AccessAccount(umbra.Address(el.Address))
		for _, key := range el.StorageKeys {
			s.context.AccessStorage(umbra.Address(el.Address), umbra.Key(key))
		}
	}
	if rules.IsShanghai {
		s.context.AccessAccount(umbra.Address(coinbase))
	}
}

func (s *stateDbAdapter) RevertToSnapshot(snapshot int) {
	s.context.RestoreSnapshot(umbra.Snapshot(snapshot))
	s.refund = s.refundBackups[umbra.Snapshot(snapshot)]
}

func (s *stateDbAdapter) Snapshot() int {
	id := s.context.CreateSnapshot()
	s.refundBackups[id] = s.refund
	return int(id)
}

func (s *stateDbAdapter) AddLog(log *types.Log) {
	topics := make([]umbra.Hash, 0, len(log.Topics))
	for _, cur := range log.Topics {
		topics = append(topics, umbra.Hash(cur))
	}
	s.context.EmitLog(umbra.Log{
		Address: umbra.Address(log.Address),
		Topics:  topics,
		Data:    log.Data,
	})
}

func (s *stateDbAdapter) AddPreimage(common.Hash, []byte) {}

// PointCache and Witness serve Verkle and stateless execution, neither of
// which is available up to Cancun.

func (s *stateDbAdapter) PointCache() *utils.PointCache {
	return nil
}

func (s *stateDbAdapter) Witness() *stateless.Witness {
	return nil
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package umbra

//go:generate mockgen -source transaction_context.go -destination transaction_context_mock.go -package umbra

// TransactionContext is the view on the world state available to a single
// simulated call. All modifications are local to the context and are
// dropped together with it.
type TransactionContext interface {
	WorldState

	// CreateAccount resets addr to a fresh account with empty storage,
	// retaining its balance.
	CreateAccount(Address)

	// GetCommittedStorage returns the value of a slot as it was when the
	// context was created.
	GetCommittedStorage(Address, Key) Word

	GetTransientStorage(Address, Key) Word
	SetTransientStorage(Address, Key, Word)

	// SelfDestruct marks addr as destroyed and clears its balance. It returns
	// false if addr was already destroyed in this context.
	SelfDestruct(Address) bool
	HasSelfDestructed(Address) bool
	// IsNewContract reports whether addr was created in this context.
	IsNewContract(Address) bool

	AccessAccount(Address) AccessStatus
	AccessStorage(Address, Key) AccessStatus
	IsAddressInAccessList(Address) bool
	IsSlotInAccessList(Address, Key) (addressPresent, slotPresent bool)

	EmitLog(Log)
	GetLogs() []Log

	GetBlockHash(number int64) Hash

	CreateSnapshot() Snapshot
	RestoreSnapshot(Snapshot)

	// Err reports the first failure of the state backing this context.
	// Once set, values returned by the context are no longer meaningful.
	Err() error
}

// AccessStatus reports whether an account or slot was accessed before in
// the ongoing call.
type AccessStatus bool

const (
	ColdAccess AccessStatus = false
	WarmAccess AccessStatus = true
)

// Snapshot identifies a point in the history of a TransactionContext that
// can be restored.
type Snapshot int

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
	"context"
	"errors"
	"testing"

	"github.com/Fantom-foundation/Umbra/go/shadow"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/holiman/uint256"
	"go.uber.org/mock/gomock"
)

func TestTransactionContext_ReadsFallThroughToOverlay(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := shadow.NewMockRemoteFetcher(ctrl)
	addr := umbra.Address{1}
	key := umbra.Key{2}

	fetcher.EXPECT().FetchAccount(gomock.Any(), addr).Return(uint256.NewInt(12), uint64(3), nil)
	fetcher.EXPECT().FetchCode(gomock.Any(), addr).Return([]byte{0x00}, nil)
	fetcher.EXPECT().FetchStorage(gomock.Any(), addr, key).Return(umbra.Word{31: 7}, nil)

	overlay := shadow.New(fetcher)
	txContext := newTransactionContext(context.Background(), overlay)

	if want, got := umbra.NewValue(12), txContext.GetBalance(addr); want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
	if want, got := uint64(3), txContext.GetNonce(addr); want != got {
		t.Errorf("unexpected nonce, wanted %v, got %v", want, got)
	}
	if want, got := 1, txContext.GetCodeSize(addr); want != got {
		t.Errorf("unexpected code size, wanted %v, got %v", want, got)
	}
	if want, got := (umbra.Word{31: 7}), txContext.GetStorage(addr, key); want != got {
		t.Errorf("unexpected storage, wanted %v, got %v", want, got)
	}
	if !txContext.AccountExists(addr) {
		t.Errorf("account should exist")
	}
	if err := txContext.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTransactionContext_WritesDoNotReachOverlay(t *testing.T) {
	ctrl := gomock.NewController(t)
	overlay := shadow.New(shadow.NewMockRemoteFetcher(ctrl))
	addr := umbra.Address{1}
	key := umbra.Key{2}
	overlay.InjectAccount(addr, []byte{0x01})
	overlay.InjectStorage(addr, key, umbra.Word{1})

	txContext := newTransactionContext(context.Background(), overlay)
	txContext.SetBalance(addr, umbra.NewValue(100))
	txContext.SetNonce(addr, 5)
	txContext.SetCode(addr, []byte{0x02, 0x03})
	txContext.SetStorage(addr, key, umbra.Word{2})

	if want, got := umbra.NewValue(100), txContext.GetBalance(addr); want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
	if want, got := umbra.Keccak256([]byte{0x02, 0x03}), txContext.GetCodeHash(addr); want != got {
		t.Errorf("unexpected code hash, wanted %v, got %v", want, got)
	}
	if want, got := (umbra.Word{2}), txContext.GetStorage(addr, key); want != got {
		t.Errorf("unexpected storage, wanted %v, got %v", want, got)
	}
	if want, got := (umbra.Word{1}), txContext.GetCommittedStorage(addr, key); want != got {
		t.Errorf("unexpected committed storage, wanted %v, got %v", want, got)
	}

	account, err := overlay.Account(context.Background(), addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.Balance.IsZero() || account.Nonce != 0 || len(account.Code) != 1 {
		t.Errorf("overlay account was modified: %+v", account)
	}
	value, err := overlay.Storage(context.Background(), addr, key)
	if err != nil || value != (umbra.Word{1}) {
		t.Errorf("overlay storage was modified: %v, err %v", value, err)
	}
}

func TestTransactionContext_RestoreSnapshotUndoesChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	overlay := shadow.New(shadow.NewMockRemoteFetcher(ctrl))
	addr := umbra.Address{1}
	key := umbra.Key{2}
	overlay.InjectAccount(addr, nil)
	overlay.InjectStorage(addr, key, umbra.Word{})

	txContext := newTransactionContext(context.Background(), overlay)
	txContext.SetBalance(addr, umbra.NewValue(1))
	txContext.SetStorage(addr, key, umbra.Word{1})
	txContext.AccessAccount(addr)

	snapshot := txContext.CreateSnapshot()

	txContext.SetBalance(addr, umbra.NewValue(2))
	txContext.SetStorage(addr, key, umbra.Word{2})
	txContext.SetTransientStorage(addr, key, umbra.Word{3})
	txContext.AccessStorage(addr, key)
	txContext.EmitLog(umbra.Log{Address: addr})
	txContext.SelfDestruct(addr)
	txContext.CreateAccount(addr)

	txContext.RestoreSnapshot(snapshot)

	if want, got := umbra.NewValue(1), txContext.GetBalance(addr); want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
	if want, got := (umbra.Word{1}), txContext.GetStorage(addr, key); want != got {
		t.Errorf("unexpected storage, wanted %v, got %v", want, got)
	}
	if got := txContext.GetTransientStorage(addr, key); got != (umbra.Word{}) {
		t.Errorf("unexpected transient storage %v", got)
	}
	if !txContext.IsAddressInAccessList(addr) {
		t.Errorf("address should still be in the access list")
	}
	if _, slotPresent := txContext.IsSlotInAccessList(addr, key); slotPresent {
		t.Errorf("slot should not be in the access list")
	}
	if len(txContext.GetLogs()) != 0 {
		t.Errorf("unexpected logs %v", txContext.GetLogs())
	}
	if txContext.HasSelfDestructed(addr) || txContext.IsNewContract(addr) {
		t.Errorf("account should neither be destroyed nor created")
	}
}

func TestTransactionContext_AccessListsReportColdAndWarmAccesses(t *testing.T) {
	ctrl := gomock.NewController(t)
	txContext := newTransactionContext(context.Background(), shadow.New(shadow.NewMockRemoteFetcher(ctrl)))
	addr := umbra.Address{1}
	key := umbra.Key{1}

	if txContext.AccessAccount(addr) != umbra.ColdAccess {
		t.Errorf("first access must be cold")
	}
	if txContext.AccessAccount(addr) != umbra.WarmAccess {
		t.Errorf("second access must be warm")
	}
	if txContext.AccessStorage(addr, key) != umbra.ColdAccess {
		t.Errorf("first slot access must be cold")
	}
	if txContext.AccessStorage(addr, key) != umbra.WarmAccess {
		t.Errorf("second slot access must be warm")
	}
}

func TestTransactionContext_NewContractsHaveEmptyStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	overlay := shadow.New(shadow.NewMockRemoteFetcher(ctrl))
	addr := umbra.Address{1}
	overlay.InjectAccount(addr, nil)
	overlay.InjectBalance(addr, umbra.NewValue(7))

	txContext := newTransactionContext(context.Background(), overlay)
	txContext.CreateAccount(addr)

	if got := txContext.GetStorage(addr, umbra.Key{1}); got != (umbra.Word{}) {
		t.Errorf("unexpected storage %v", got)
	}
	if want, got := umbra.NewValue(7), txContext.GetBalance(addr); want != got {
		t.Errorf("balance must be retained, wanted %v, got %v", want, got)
	}
	if !txContext.AccountExists(addr) || !txContext.IsNewContract(addr) {
		t.Errorf("created account must exist")
	}
}

func TestTransactionContext_FirstFetchFailureIsRecorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := shadow.NewMockRemoteFetcher(ctrl)
	failure := errors.New("unavailable")

	fetcher.EXPECT().FetchAccount(gomock.Any(), umbra.Address{1}).Return(nil, uint64(0), failure)

	txContext := newTransactionContext(context.Background(), shadow.New(fetcher))
	calls := 0
	txContext.onFailure = func() { calls++ }

	if got := txContext.GetBalance(umbra.Address{1}); !got.IsZero() {
		t.Errorf("unexpected balance %v", got)
	}
	// No further fetches are issued once a failure was recorded.
	txContext.GetBalance(umbra.Address{2})
	txContext.GetStorage(umbra.Address{2}, umbra.Key{})

	var fetchErr *shadow.StateFetchError
	if !errors.As(txContext.Err(), &fetchErr) || fetchErr.Address != (umbra.Address{1}) {
		t.Errorf("unexpected error %v", txContext.Err())
	}
	if calls != 1 {
		t.Errorf("failure handler should be called once, got %d", calls)
	}
}

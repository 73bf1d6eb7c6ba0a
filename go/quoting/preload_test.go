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
	"errors"
	"testing"

	"github.com/Fantom-foundation/Umbra/go/shadow"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/holiman/uint256"
	"go.uber.org/mock/gomock"
)

func TestPreload_InstallsCachedCodeWithoutFetchingAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := shadow.NewMockRemoteFetcher(ctrl)
	source := shadow.NewMockCodeSource(ctrl)

	pool := umbra.Address{1}
	quoter := umbra.Address{2}
	source.EXPECT().GetOrFetch(gomock.Any(), pool, fetcher).Return([]byte{0x01}, nil)
	source.EXPECT().GetOrFetch(gomock.Any(), quoter, fetcher).Return([]byte{0x02}, nil)

	overlay := shadow.New(fetcher)
	if err := Preload(context.Background(), overlay, source, fetcher, pool, quoter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for addr, code := range map[umbra.Address]byte{pool: 0x01, quoter: 0x02} {
		account, err := overlay.Account(context.Background(), addr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(account.Code) != 1 || account.Code[0] != code {
			t.Errorf("unexpected code of %v: %x", addr, account.Code)
		}
		if !account.Balance.IsZero() || account.Nonce != 0 {
			t.Errorf("unexpected account %v: %+v", addr, account)
		}
	}
	if stats := overlay.Stats(); stats != (shadow.Stats{}) {
		t.Errorf("unexpected fetches %+v", stats)
	}
}

func TestPreload_CodeFailuresAreReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := shadow.NewMockRemoteFetcher(ctrl)
	source := shadow.NewMockCodeSource(ctrl)

	failure := errors.New("unavailable")
	source.EXPECT().GetOrFetch(gomock.Any(), umbra.Address{1}, fetcher).Return(nil, failure)

	overlay := shadow.New(fetcher)
	err := Preload(context.Background(), overlay, source, fetcher, umbra.Address{1}, umbra.Address{2})
	if !errors.Is(err, failure) {
		t.Errorf("expected failure, got %v", err)
	}
	if overlay.IsLoaded(umbra.Address{1}) || overlay.IsLoaded(umbra.Address{2}) {
		t.Errorf("accounts must not be installed")
	}
}

func TestMockBalance_SetsMappingEntryOfHolder(t *testing.T) {
	ctrl := gomock.NewController(t)
	overlay := shadow.New(shadow.NewMockRemoteFetcher(ctrl))

	token := umbra.Address{1}
	holder := umbra.Address{2}
	slot := umbra.WordFromUint256(uint256.NewInt(9))
	MockBalance(overlay, token, slot, holder, uint256.NewInt(1234))

	key := shadow.MappingSlot(umbra.AddressToWord(holder), slot)
	value, err := overlay.Storage(context.Background(), token, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.ToUint256().Eq(uint256.NewInt(1234)) {
		t.Errorf("unexpected balance %v", value)
	}
}

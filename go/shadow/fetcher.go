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
	"context"

	"github.com/Fantom-foundation/Umbra/go/bytecode"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/holiman/uint256"
)

//go:generate mockgen -source fetcher.go -destination fetcher_mock.go -package shadow

// RemoteFetcher provides read access to the state of a remote chain, pinned
// to a fixed block.
type RemoteFetcher interface {
	FetchCode(ctx context.Context, addr umbra.Address) ([]byte, error)
	FetchAccount(ctx context.Context, addr umbra.Address) (balance *uint256.Int, nonce uint64, err error)
	FetchStorage(ctx context.Context, addr umbra.Address, key umbra.Key) (umbra.Word, error)
}

var _ bytecode.Fetcher = codeFetcherFunc(nil)

// CodeSource provides account code on behalf of an overlay, typically backed
// by a persistent cache. It is satisfied by *bytecode.Cache.
type CodeSource interface {
	GetOrFetch(ctx context.Context, addr umbra.Address, fetcher bytecode.Fetcher) ([]byte, error)
}

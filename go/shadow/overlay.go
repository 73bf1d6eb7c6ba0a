// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package shadow maintains a local, mutable shadow of a remote chain's
// state. Accounts and storage slots are fetched lazily on first use and
// retained for the lifetime of the overlay. Synthetic state may be injected
// to simulate conditions not present on the remote chain.
package shadow

import (
	"context"

	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
)

var (
	accountFetchCounter = metrics.NewRegisteredCounter("umbra/shadow/fetch/account", nil)
	codeFetchCounter    = metrics.NewRegisteredCounter("umbra/shadow/fetch/code", nil)
	storageFetchCounter = metrics.NewRegisteredCounter("umbra/shadow/fetch/storage", nil)
)

// Account is the overlay's record of a single account.
type Account struct {
	Balance  umbra.Value
	Nonce    uint64
	Code     umbra.Code
	CodeHash umbra.Hash
}

func newAccount(balance umbra.Value, nonce uint64, code []byte) *Account {
	return &Account{
		Balance:  balance,
		Nonce:    nonce,
		Code:     code,
		CodeHash: umbra.Keccak256(code),
	}
}

// IsEmpty reports whether the account has no balance, nonce or code.
func (a Account) IsEmpty() bool {
	return a.Balance.IsZero() && a.Nonce == 0 && len(a.Code) == 0
}

// Stats summarizes the remote fetches issued by an overlay.
type Stats struct {
	AccountFetches int
	CodeFetches    int
	StorageFetches int
}

type slot struct {
	addr umbra.Address
	key  umbra.Key
}

// Overlay is a shadow of remote state. Present entries are authoritative;
// absent entries are fetched once and then retained. An overlay is not safe
// for concurrent use; independent overlays may be used concurrently.
type Overlay struct {
	fetcher RemoteFetcher
	code    CodeSource
	log     log.Logger

	accounts map[umbra.Address]*Account
	storage  map[slot]umbra.Word

	// Balance and nonce injections for accounts not loaded yet.
	balances map[umbra.Address]umbra.Value
	nonces   map[umbra.Address]uint64

	stats Stats
}

// Option customizes an Overlay.
type Option func(*Overlay)

// WithCodeSource makes the overlay obtain account code through the given
// source instead of fetching it directly.
func WithCodeSource(source CodeSource) Option {
	return func(o *Overlay) {
		o.code = source
	}
}

// WithLogger sets the logger of the overlay. Defaults to log.Root().
func WithLogger(logger log.Logger) Option {
	return func(o *Overlay) {
		o.log = logger
	}
}

// New creates an empty overlay backed by the given fetcher.
func New(fetcher RemoteFetcher, options ...Option) *Overlay {
	res := &Overlay{
		fetcher:  fetcher,
		log:      log.Root(),
		accounts: map[umbra.Address]*Account{},
		storage:  map[slot]umbra.Word{},
		balances: map[umbra.Address]umbra.Value{},
		nonces:   map[umbra.Address]uint64{},
	}
	for _, option := range options {
		option(res)
	}
	return res
}

// Stats reports the number of remote fetches issued so far.
func (o *Overlay) Stats() Stats {
	return o.stats
}

// IsLoaded reports whether addr is present in the overlay, either fetched or
// injected.
func (o *Overlay) IsLoaded(addr umbra.Address) bool {
	_, found := o.accounts[addr]
	return found
}

// Account returns the account at addr, loading balance, nonce and code from
// the remote source if the account is not present yet. A failed load leaves
// the overlay unchanged.
func (o *Overlay) Account(ctx context.Context, addr umbra.Address) (Account, error) {
	if account, found := o.accounts[addr]; found {
		return *account, nil
	}
	account, err := o.loadAccount(ctx, addr)
	if err != nil {
		return Account{}, &StateFetchError{Address: addr, Err: err}
	}
	o.accounts[addr] = account
	return *account, nil
}

func (o *Overlay) loadAccount(ctx context.Context, addr umbra.Address) (*Account, error) {
	o.stats.AccountFetches++
	accountFetchCounter.Inc(1)
	balance, nonce, err := o.fetcher.FetchAccount(ctx, addr)
	if err != nil {
		return nil, err
	}

	var code []byte
	if o.code != nil {
		code, err = o.code.GetOrFetch(ctx, addr, codeFetcherFunc(o.fetchCode))
	} else {
		code, err = o.fetchCode(ctx, addr)
	}
	if err != nil {
		return nil, err
	}

	account := newAccount(umbra.ValueFromUint256(balance), nonce, code)
	if value, found := o.balances[addr]; found {
		account.Balance = value
		delete(o.balances, addr)
	}
	if value, found := o.nonces[addr]; found {
		account.Nonce = value
		delete(o.nonces, addr)
	}
	o.log.Trace("Loaded account", "address", addr, "balance", account.Balance, "nonce", account.Nonce, "code", len(account.Code))
	return account, nil
}

// fetchCode requests code from the remote source. Code served by a
// CodeSource without reaching this point is not counted as a fetch.
func (o *Overlay) fetchCode(ctx context.Context, addr umbra.Address) ([]byte, error) {
	o.stats.CodeFetches++
	codeFetchCounter.Inc(1)
	return o.fetcher.FetchCode(ctx, addr)
}

// codeFetcherFunc adapts a function to the bytecode.Fetcher interface.
type codeFetcherFunc func(ctx context.Context, addr umbra.Address) ([]byte, error)

func (f codeFetcherFunc) FetchCode(ctx context.Context, addr umbra.Address) ([]byte, error) {
	return f(ctx, addr)
}

func (o *Overlay) Balance(ctx context.Context, addr umbra.Address) (umbra.Value, error) {
	account, err := o.Account(ctx, addr)
	return account.Balance, err
}

func (o *Overlay) Nonce(ctx context.Context, addr umbra.Address) (uint64, error) {
	account, err := o.Account(ctx, addr)
	return account.Nonce, err
}

func (o *Overlay) Code(ctx context.Context, addr umbra.Address) (umbra.Code, error) {
	account, err := o.Account(ctx, addr)
	return account.Code, err
}

func (o *Overlay) CodeHash(ctx context.Context, addr umbra.Address) (umbra.Hash, error) {
	account, err := o.Account(ctx, addr)
	return account.CodeHash, err
}

// Storage returns the value of a storage slot, fetching it from the remote
// source if it is not present yet.
func (o *Overlay) Storage(ctx context.Context, addr umbra.Address, key umbra.Key) (umbra.Word, error) {
	if value, found := o.storage[slot{addr, key}]; found {
		return value, nil
	}
	o.stats.StorageFetches++
	storageFetchCounter.Inc(1)
	value, err := o.fetcher.FetchStorage(ctx, addr, key)
	if err != nil {
		return umbra.Word{}, &StateFetchError{Address: addr, Key: &key, Err: err}
	}
	o.storage[slot{addr, key}] = value
	return value, nil
}

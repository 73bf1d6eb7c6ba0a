// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"context"
	"fmt"

	"github.com/Fantom-foundation/Umbra/go/bytecode"
	"github.com/Fantom-foundation/Umbra/go/processor"
	"github.com/Fantom-foundation/Umbra/go/quoting"
	"github.com/Fantom-foundation/Umbra/go/remote"
	"github.com/Fantom-foundation/Umbra/go/shadow"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
)

// backend bundles the components shared by all workers of a command.
type backend struct {
	client    *remote.Client
	cache     *bytecode.Cache
	processor *processor.Processor
	caller    umbra.Address
}

func openBackend(ctx *cli.Context) (*backend, error) {
	caller, err := umbra.ParseAddress(ctx.String(callerFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("invalid caller: %w", err)
	}
	cache, err := bytecode.New(bytecode.Config{Dir: ctx.String(cacheDirFlag.Name)})
	if err != nil {
		return nil, err
	}
	client, err := remote.Dial(ctx.Context, remote.Config{
		URL:               ctx.String(rpcFlag.Name),
		Block:             parseBlock(ctx),
		RequestTimeout:    ctx.Duration(requestTimeoutFlag.Name),
		RequestsPerSecond: ctx.Float64(requestsPerSecondFlag.Name),
	})
	if err != nil {
		return nil, err
	}
	block, err := client.BlockParameters(ctx.Context)
	if err != nil {
		client.Close()
		return nil, err
	}
	if name := ctx.String(revisionFlag.Name); name != "" {
		if block.Revision, err = umbra.ParseRevision(name); err != nil {
			client.Close()
			return nil, err
		}
	}
	log.Info("Connected to remote node", "block", block.BlockNumber, "revision", block.Revision)

	return &backend{
		client: client,
		cache:  cache,
		processor: processor.New(processor.Config{
			GasCap: ctx.Uint64(gasCapFlag.Name),
			Block:  block,
		}),
		caller: caller,
	}, nil
}

func (b *backend) Close() {
	b.client.Close()
}

func (b *backend) quoter() *quoting.Quoter {
	return &quoting.Quoter{Processor: b.processor, Caller: b.caller}
}

// overlaySetup describes the state installed in each worker's overlay
// before any quote is computed.
type overlaySetup struct {
	// preload lists contracts installed from the code cache.
	preload []umbra.Address
	// code lists contracts installed with the given code.
	code map[umbra.Address][]byte
	// balances lists token balances to mock.
	balances []mockedBalance
}

type mockedBalance struct {
	token  token
	holder umbra.Address
	amount *uint256.Int
}

// overlays creates a factory of overlays prepared with the given setup.
func (b *backend) overlays(setup overlaySetup) quoting.OverlayFactory {
	return func(ctx context.Context) (*shadow.Overlay, error) {
		overlay := shadow.New(b.client, shadow.WithCodeSource(b.cache))
		overlay.InjectAccount(b.caller, nil)
		if err := quoting.Preload(ctx, overlay, b.cache, b.client, setup.preload...); err != nil {
			return nil, err
		}
		for addr, code := range setup.code {
			overlay.InjectAccount(addr, code)
		}
		for _, balance := range setup.balances {
			slot := umbra.WordFromUint256(uint256.NewInt(uint64(balance.token.BalanceSlot)))
			quoting.MockBalance(overlay, balance.token.Address, slot, balance.holder, balance.amount)
		}
		return overlay, nil
	}
}

// mockPoolBalances mocks the balances of all pools in all tokens with a
// known storage layout.
func mockPoolBalances(amount *uint256.Int, pools []umbra.Address, tokens ...token) []mockedBalance {
	var res []mockedBalance
	for _, tok := range tokens {
		if tok.BalanceSlot < 0 {
			log.Warn("Unknown balance layout, pool balances are read from the remote node", "token", tok.Symbol)
			continue
		}
		for _, pool := range pools {
			res = append(res, mockedBalance{token: tok, holder: pool, amount: amount})
		}
	}
	return res
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package processor executes single contract calls against a shadow state
// using the go-ethereum EVM.
package processor

import (
	"context"
	"errors"
	"math/big"

	"github.com/Fantom-foundation/Umbra/go/shadow"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/common"
	geth "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// DefaultGasCap is the gas provided to calls if no other cap is configured.
const DefaultGasCap = 50_000_000

// Config contains the configuration options of a Processor.
type Config struct {
	// GasCap is the gas made available to each call. If zero,
	// DefaultGasCap is used.
	GasCap uint64
	// Block describes the block calls are executed in. If it is the zero
	// value, DefaultBlockParameters are used.
	Block umbra.BlockParameters
	// Logger defaults to log.Root().
	Logger log.Logger
}

// DefaultBlockParameters describes a block of Ethereum's main net running
// the newest supported revision.
func DefaultBlockParameters() umbra.BlockParameters {
	return umbra.BlockParameters{
		ChainID:  umbra.WordFromUint256(uint256.NewInt(1)),
		GasLimit: 30_000_000,
		Revision: umbra.NewestSupportedRevision,
	}
}

// Processor executes calls against shadow states. A Processor is stateless
// and may be used concurrently for calls on independent overlays.
type Processor struct {
	gasCap      uint64
	block       umbra.BlockParameters
	chainConfig params.ChainConfig
	log         log.Logger
}

// New creates a processor with the given configuration.
func New(config Config) *Processor {
	if config.GasCap == 0 {
		config.GasCap = DefaultGasCap
	}
	if config.Block == (umbra.BlockParameters{}) {
		config.Block = DefaultBlockParameters()
	}
	if config.Block.GasLimit <= 0 {
		config.Block.GasLimit = umbra.Gas(config.GasCap)
	}
	if config.Logger == nil {
		config.Logger = log.Root()
	}
	chainId := new(big.Int).SetBytes(config.Block.ChainID[:])
	return &Processor{
		gasCap:      config.GasCap,
		block:       config.Block,
		chainConfig: MakeChainConfig(*params.AllEthashProtocolChanges, chainId, config.Block.Revision),
		log:         config.Logger,
	}
}

// Execute runs a single call with zero value from caller to target on the
// given overlay. The call's own state changes are discarded once it
// completes, so repeated calls observe the same state. State missing in the
// overlay is fetched on demand and retained in the overlay.
//
// Calls ending in STOP, RETURN or REVERT produce an Outcome. Any other end
// of the call, including failures to load state and the cancellation of
// ctx, is reported as an *ExecutionError.
func (p *Processor) Execute(
	ctx context.Context,
	overlay *shadow.Overlay,
	caller umbra.Address,
	target umbra.Address,
	calldata []byte,
) (Outcome, error) {
	txContext := newTransactionContext(ctx, overlay)
	stateDb := newStateDbAdapter(txContext)
	evm := p.newEvm(stateDb, caller)
	txContext.onFailure = evm.Cancel

	stop := context.AfterFunc(ctx, evm.Cancel)
	defer stop()

	rules := p.chainConfig.Rules(evm.Context.BlockNumber, evm.Context.Random != nil, evm.Context.Time)
	dest := common.Address(target)
	stateDb.Prepare(rules, common.Address(caller), evm.Context.Coinbase, &dest, geth.ActivePrecompiles(rules), nil)

	output, gasLeft, err := evm.Call(geth.AccountRef(caller), dest, calldata, p.gasCap, new(uint256.Int))

	if fetchErr := txContext.Err(); fetchErr != nil {
		return Outcome{}, &ExecutionError{Err: fetchErr}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Outcome{}, &ExecutionError{Err: ctxErr}
	}

	gasUsed := umbra.Gas(p.gasCap - gasLeft)
	switch {
	case err == nil:
		return Outcome{
			Kind:    Success,
			Output:  output,
			GasUsed: gasUsed,
			Logs:    txContext.GetLogs(),
		}, nil
	case errors.Is(err, geth.ErrExecutionReverted):
		return Outcome{
			Kind:    Revert,
			Output:  output,
			GasUsed: gasUsed,
		}, nil
	default:
		p.log.Debug("Call halted", "target", target, "err", err)
		return Outcome{}, &ExecutionError{Err: err}
	}
}

func (p *Processor) newEvm(stateDb *stateDbAdapter, caller umbra.Address) *geth.EVM {
	block := p.block
	blockCtx := geth.BlockContext{
		CanTransfer: canTransferFunc,
		Transfer:    transferFunc,
		GetHash: func(num uint64) common.Hash {
			return common.Hash(stateDb.context.GetBlockHash(int64(num)))
		},
		Coinbase:    common.Address(block.Coinbase),
		GasLimit:    uint64(block.GasLimit),
		BlockNumber: big.NewInt(block.BlockNumber),
		Time:        uint64(block.Timestamp),
		Difficulty:  new(big.Int).SetBytes(block.PrevRandao[:]),
		BaseFee:     block.BaseFee.ToBig(),
		BlobBaseFee: block.BlobBaseFee.ToBig(),
	}
	if block.Revision >= umbra.R11_Paris {
		// Setting the random signals to geth that a post-merge (Paris) revision should be utilized.
		random := common.Hash(block.PrevRandao)
		blockCtx.Random = &random
	}

	// Calls are simulated at a gas price of zero; fees are never charged.
	txCtx := geth.TxContext{
		Origin:     common.Address(caller),
		GasPrice:   new(big.Int),
		BlobFeeCap: new(big.Int),
	}
	chainConfig := p.chainConfig
	return geth.NewEVM(blockCtx, txCtx, stateDb, &chainConfig, geth.Config{})
}

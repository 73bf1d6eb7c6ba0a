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
	"math/big"

	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/params"
)

// MakeChainConfig returns a chain config for the given chain ID and target revision.
// The baseline config is used as a starting point, so that any prefilled configuration from go-ethereum:params/config.go can be used.
// chainId needs to be prefilled as it may be accessed with the opcode CHAINID.
// All forks up to the target revision are active from genesis on; later forks are disabled.
func MakeChainConfig(baseline params.ChainConfig, chainId *big.Int, targetRevision umbra.Revision) params.ChainConfig {
	genesis := uint64(0)

	chainConfig := baseline
	chainConfig.ChainID = chainId
	chainConfig.ByzantiumBlock = big.NewInt(0)
	chainConfig.ConstantinopleBlock = big.NewInt(0)
	chainConfig.PetersburgBlock = big.NewInt(0)
	chainConfig.IstanbulBlock = big.NewInt(0)
	chainConfig.BerlinBlock = nil
	chainConfig.LondonBlock = nil
	chainConfig.MergeNetsplitBlock = nil
	chainConfig.ShanghaiTime = nil
	chainConfig.CancunTime = nil
	chainConfig.PragueTime = nil
	chainConfig.VerkleTime = nil

	if targetRevision >= umbra.R09_Berlin {
		chainConfig.BerlinBlock = big.NewInt(0)
	}
	if targetRevision >= umbra.R10_London {
		chainConfig.LondonBlock = big.NewInt(0)
	}
	if targetRevision >= umbra.R11_Paris {
		chainConfig.MergeNetsplitBlock = big.NewInt(0)
	}
	if targetRevision >= umbra.R12_Shanghai {
		chainConfig.ShanghaiTime = &genesis
	}
	if targetRevision >= umbra.R13_Cancun {
		chainConfig.CancunTime = &genesis
	}
	return chainConfig
}

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
	"testing"

	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/params"
)

func TestMakeChainConfig_EnablesForksUpToTargetRevision(t *testing.T) {
	type forks struct {
		berlin, london, merge, shanghai, cancun bool
	}
	tests := map[umbra.Revision]forks{
		umbra.R07_Istanbul: {},
		umbra.R09_Berlin:   {berlin: true},
		umbra.R10_London:   {berlin: true, london: true},
		umbra.R11_Paris:    {berlin: true, london: true, merge: true},
		umbra.R12_Shanghai: {berlin: true, london: true, merge: true, shanghai: true},
		umbra.R13_Cancun:   {berlin: true, london: true, merge: true, shanghai: true, cancun: true},
	}
	for revision, want := range tests {
		t.Run(revision.String(), func(t *testing.T) {
			chainConfig := MakeChainConfig(*params.AllEthashProtocolChanges, big.NewInt(1), revision)
			rules := chainConfig.Rules(big.NewInt(1000), revision >= umbra.R11_Paris, 1000)
			got := forks{
				berlin:   rules.IsBerlin,
				london:   rules.IsLondon,
				merge:    rules.IsMerge,
				shanghai: rules.IsShanghai,
				cancun:   rules.IsCancun,
			}
			if want != got {
				t.Errorf("unexpected forks, wanted %+v, got %+v", want, got)
			}
			if !rules.IsIstanbul {
				t.Errorf("Istanbul must always be enabled")
			}
		})
	}
}

func TestMakeChainConfig_SetsChainId(t *testing.T) {
	chainConfig := MakeChainConfig(*params.AllEthashProtocolChanges, big.NewInt(250), umbra.R13_Cancun)
	if chainConfig.ChainID.Cmp(big.NewInt(250)) != 0 {
		t.Errorf("unexpected chain id %v", chainConfig.ChainID)
	}
	if params.AllEthashProtocolChanges.ChainID.Cmp(big.NewInt(250)) == 0 {
		t.Errorf("baseline config must not be modified")
	}
}

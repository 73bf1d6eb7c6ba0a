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
	"testing"

	"github.com/holiman/uint256"
)

func TestVolumes_AreDescendingMultiplesOfStep(t *testing.T) {
	tenthEther := uint256.NewInt(100_000_000_000_000_000)
	volumes := Volumes(new(uint256.Int), tenthEther, 10)
	if len(volumes) != 10 {
		t.Fatalf("unexpected number of volumes %d", len(volumes))
	}
	if !volumes[0].Eq(tenthEther) {
		t.Errorf("unexpected first volume %v", volumes[0])
	}
	step := uint256.NewInt(10_000_000_000_000_000)
	for i, volume := range volumes {
		want := new(uint256.Int).Mul(step, uint256.NewInt(uint64(10-i)))
		if !volume.Eq(want) {
			t.Errorf("unexpected volume %d, wanted %v, got %v", i, want, volume)
		}
	}
}

func TestVolumes_StepIsDerivedFromRange(t *testing.T) {
	volumes := Volumes(uint256.NewInt(100), uint256.NewInt(200), 4)
	want := []uint64{100, 75, 50, 25}
	if len(volumes) != len(want) {
		t.Fatalf("unexpected volumes %v", volumes)
	}
	for i := range want {
		if !volumes[i].Eq(uint256.NewInt(want[i])) {
			t.Errorf("unexpected volume %d, wanted %d, got %v", i, want[i], volumes[i])
		}
	}
}

func TestVolumes_InvalidRangesProduceNoVolumes(t *testing.T) {
	tests := map[string]struct {
		from, to uint64
		count    int
	}{
		"zero count":     {0, 100, 0},
		"negative count": {0, 100, -1},
		"inverted range": {100, 0, 10},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Volumes(uint256.NewInt(test.from), uint256.NewInt(test.to), test.count); got != nil {
				t.Errorf("unexpected volumes %v", got)
			}
		})
	}
}

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
	"sync/atomic"
	"testing"

	"github.com/Fantom-foundation/Umbra/go/shadow"
	"github.com/holiman/uint256"
)

func TestRunWorkers_ResultsMatchSequentialSweep(t *testing.T) {
	volumes := Volumes(new(uint256.Int), uint256.NewInt(1_000_000), 10)
	route := Route{helperHop, quoterHop}
	quoter := newTestQuoter()

	want := quoter.Sweep(context.Background(), newTestOverlay(t), route, volumes)

	for _, jobs := range []int{0, 1, 3, 20} {
		var created atomic.Int32
		factory := func(context.Context) (*shadow.Overlay, error) {
			created.Add(1)
			return newTestOverlay(t), nil
		}
		got, err := quoter.RunWorkers(context.Background(), jobs, factory, route, volumes)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("unexpected number of results %d", len(got))
		}
		for i := range want {
			if !got[i].AmountIn.Eq(want[i].AmountIn) || !got[i].AmountOut().Eq(want[i].AmountOut()) {
				t.Errorf("jobs %d: unexpected result %d: %v", jobs, i, got[i])
			}
		}
		if want := int32(max(1, min(jobs, len(volumes)))); created.Load() != want {
			t.Errorf("jobs %d: unexpected number of overlays %d, wanted %d", jobs, created.Load(), want)
		}
	}
}

func TestRunWorkers_OverlayFailuresAreReported(t *testing.T) {
	failure := errors.New("no overlay")
	factory := func(context.Context) (*shadow.Overlay, error) {
		return nil, failure
	}
	_, err := newTestQuoter().RunWorkers(context.Background(), 2, factory, Route{quoterHop}, Volumes(new(uint256.Int), uint256.NewInt(10), 4))
	if !errors.Is(err, failure) {
		t.Errorf("expected failure, got %v", err)
	}
}

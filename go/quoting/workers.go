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
	"fmt"

	"github.com/Fantom-foundation/Umbra/go/shadow"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"
)

// OverlayFactory creates an independent overlay for a worker.
type OverlayFactory func(ctx context.Context) (*shadow.Overlay, error)

// RunWorkers quotes the route for all volumes using the given number of
// workers. Each worker quotes every jobs-th volume on its own overlay, so
// workers never share state. Results are reported in the order of volumes.
// An error is returned only if an overlay could not be created.
func (q *Quoter) RunWorkers(
	ctx context.Context,
	jobs int,
	newOverlay OverlayFactory,
	route Route,
	volumes []*uint256.Int,
) ([]Result, error) {
	if jobs <= 0 {
		jobs = 1
	}
	jobs = min(jobs, len(volumes))

	res := make([]Result, len(volumes))
	group, ctx := errgroup.WithContext(ctx)
	for worker := 0; worker < jobs; worker++ {
		group.Go(func() error {
			overlay, err := newOverlay(ctx)
			if err != nil {
				return fmt.Errorf("worker %d failed to create overlay: %w", worker, err)
			}
			for i := worker; i < len(volumes); i += jobs {
				res[i] = q.sweepOne(ctx, overlay, route, volumes[i])
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

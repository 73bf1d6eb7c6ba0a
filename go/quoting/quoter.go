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

	"github.com/Fantom-foundation/Umbra/go/processor"
	"github.com/Fantom-foundation/Umbra/go/shadow"
	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Hop is a single swap of a route, quoted by the contract at Target.
type Hop struct {
	Target umbra.Address
	Path   Path
}

// Route is a sequence of swaps where the output of each hop is the input of
// the next one.
type Route []Hop

// Result summarizes the quote of a route for a single input volume.
type Result struct {
	AmountIn *uint256.Int
	// Amounts lists the output of each hop quoted successfully.
	Amounts []*uint256.Int
	// Err is the reason the route could not be quoted completely.
	Err error
}

// AmountOut returns the output of the last hop or nil if the route failed.
func (r Result) AmountOut() *uint256.Int {
	if r.Err != nil || len(r.Amounts) == 0 {
		return nil
	}
	return r.Amounts[len(r.Amounts)-1]
}

// Profit returns the surplus of the final output over the input for routes
// ending in the input token. The result is zero if there is no surplus.
func (r Result) Profit() *uint256.Int {
	out := r.AmountOut()
	if out == nil || !out.Gt(r.AmountIn) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(out, r.AmountIn)
}

// Quoter runs quoting calls on behalf of a fixed caller.
type Quoter struct {
	Processor *processor.Processor
	Caller    umbra.Address
	// Logger defaults to log.Root().
	Logger log.Logger
}

func (q *Quoter) logger() log.Logger {
	if q.Logger == nil {
		return log.Root()
	}
	return q.Logger
}

// Quote quotes a single hop for the given input amount.
func (q *Quoter) Quote(ctx context.Context, overlay *shadow.Overlay, hop Hop, amountIn *uint256.Int) (*uint256.Int, error) {
	calldata, err := hop.Path.Encode(amountIn)
	if err != nil {
		return nil, err
	}
	outcome, err := q.Processor.Execute(ctx, overlay, q.Caller, hop.Target, calldata)
	if err != nil {
		return nil, err
	}
	return hop.Path.Decode(outcome)
}

// QuoteRoute quotes all hops of a route, feeding the output of each hop into
// the next one. Outputs of the hops quoted before a failure are retained.
func (q *Quoter) QuoteRoute(ctx context.Context, overlay *shadow.Overlay, route Route, amountIn *uint256.Int) Result {
	res := Result{AmountIn: amountIn}
	if len(route) == 0 {
		res.Err = ErrNoRoute
		return res
	}
	amount := amountIn
	for i, hop := range route {
		out, err := q.Quote(ctx, overlay, hop, amount)
		if err != nil {
			res.Err = fmt.Errorf("hop %d: %w", i, err)
			return res
		}
		res.Amounts = append(res.Amounts, out)
		amount = out
	}
	return res
}

// Sweep quotes the route for every volume on a single overlay. A failure of
// one volume is recorded in its result and does not affect the others. Once
// ctx is done, the remaining volumes report the context's error.
func (q *Quoter) Sweep(ctx context.Context, overlay *shadow.Overlay, route Route, volumes []*uint256.Int) []Result {
	res := make([]Result, len(volumes))
	for i, volume := range volumes {
		res[i] = q.sweepOne(ctx, overlay, route, volume)
	}
	return res
}

func (q *Quoter) sweepOne(ctx context.Context, overlay *shadow.Overlay, route Route, volume *uint256.Int) Result {
	if err := ctx.Err(); err != nil {
		return Result{AmountIn: volume, Err: err}
	}
	res := q.QuoteRoute(ctx, overlay, route, volume)
	if res.Err != nil {
		q.logger().Debug("Failed to quote volume", "amountIn", volume, "err", res.Err)
	}
	return res
}

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
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Fantom-foundation/Umbra/go/quoting"
	"github.com/dsnet/golib/unitconv"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
)

// runSweep quotes the route for all volumes of the configured range and
// prints the results. It fails only if no volume could be quoted.
func runSweep(
	ctx *cli.Context,
	backend *backend,
	setup overlaySetup,
	route quoting.Route,
	from, to *uint256.Int,
	tokens []token,
) error {
	volumes := quoting.Volumes(from, to, ctx.Int(countFlag.Name))
	jobs := ctx.Int(jobsFlag.Name)
	log.Info("Quoting volumes", "count", len(volumes), "hops", len(route), "jobs", jobs)

	start := time.Now()
	results, err := backend.quoter().RunWorkers(ctx.Context, jobs, backend.overlays(setup), route, volumes)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	symbols := make([]string, len(tokens))
	for i, tok := range tokens {
		symbols[i] = tok.Symbol
	}
	failed := printResults(ctx.App.Writer, results, symbols)
	fmt.Fprintln(ctx.App.Writer, formatThroughput(len(results), elapsed))

	if failed > 0 && failed == len(results) {
		return fmt.Errorf("failed to quote all %d volumes", failed)
	}
	return nil
}

// printResults prints one line per result and returns the number of failed
// results. Routes ending in their input token are reported with profits.
func printResults(out io.Writer, results []quoting.Result, symbols []string) int {
	roundTrip := len(symbols) > 1 && symbols[0] == symbols[len(symbols)-1]
	failed := 0
	for _, res := range results {
		fmt.Fprintln(out, formatResult(res, symbols))
		if res.Err != nil {
			failed++
			continue
		}
		if profit := res.Profit(); roundTrip && !profit.IsZero() {
			fmt.Fprintf(out, "Profit: %s %s\n", profit.Dec(), symbols[0])
		}
	}
	return failed
}

func formatResult(res quoting.Result, symbols []string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s %s", res.AmountIn.Dec(), symbols[0])
	for i, amount := range res.Amounts {
		fmt.Fprintf(&builder, " -> %s %s", amount.Dec(), symbols[i+1])
	}
	if res.Err != nil {
		fmt.Fprintf(&builder, " -> failed: %v", res.Err)
	}
	return builder.String()
}

func formatThroughput(count int, elapsed time.Duration) string {
	rate := 0.0
	if elapsed > 0 {
		rate = float64(count) / elapsed.Seconds()
	}
	return fmt.Sprintf(
		"-> %d quotes in %v, ~%s quotes per second",
		count, elapsed.Round(time.Millisecond), unitconv.FormatPrefix(rate, unitconv.SI, 0),
	)
}

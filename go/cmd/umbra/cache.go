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

	"github.com/Fantom-foundation/Umbra/go/bytecode"
	"github.com/urfave/cli/v2"
)

var CacheCmd = cli.Command{
	Name:  "cache",
	Usage: "Maintain the contract code cache",
	Subcommands: []*cli.Command{
		{
			Action: doCachePath,
			Name:   "path",
			Usage:  "Print the location of the cache",
			Flags:  []cli.Flag{cacheDirFlag},
		},
		{
			Action: doCacheClear,
			Name:   "clear",
			Usage:  "Remove all cached contract code",
			Flags:  []cli.Flag{cacheDirFlag},
		},
	},
}

func openCache(ctx *cli.Context) (*bytecode.Cache, error) {
	return bytecode.New(bytecode.Config{Dir: ctx.String(cacheDirFlag.Name), MemoryEntries: -1})
}

func doCachePath(ctx *cli.Context) error {
	cache, err := openCache(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, cache.Dir())
	return nil
}

func doCacheClear(ctx *cli.Context) error {
	cache, err := openCache(ctx)
	if err != nil {
		return err
	}
	if err := cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", cache.Dir(), err)
	}
	fmt.Fprintf(ctx.App.Writer, "Cleared %s\n", cache.Dir())
	return nil
}

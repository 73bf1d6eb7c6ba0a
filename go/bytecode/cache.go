// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package bytecode maintains a persistent cache of contract code fetched from
// a remote node. Deployed code is immutable, so entries are never refreshed.
package bytecode

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	lru "github.com/hashicorp/golang-lru/v2"
)

//go:generate mockgen -source cache.go -destination cache_mock.go -package bytecode

// Fetcher provides contract code on a cache miss.
type Fetcher interface {
	FetchCode(ctx context.Context, addr umbra.Address) ([]byte, error)
}

// Config contains the configuration options of a bytecode cache.
type Config struct {
	// Dir is the directory holding the cache entries. It is created if
	// missing. Required.
	Dir string
	// MemoryEntries is the number of codes retained in memory in front of
	// the disk store. If set to 0, a default size is used. If negative, no
	// memory cache is used.
	MemoryEntries int
	// Logger receives reports of cache I/O failures. Defaults to log.Root().
	Logger log.Logger
}

const defaultMemoryEntries = 1 << 10

var (
	memoryHitCounter = metrics.NewRegisteredCounter("umbra/bytecode/hit/memory", nil)
	diskHitCounter   = metrics.NewRegisteredCounter("umbra/bytecode/hit/disk", nil)
	missCounter      = metrics.NewRegisteredCounter("umbra/bytecode/miss", nil)
	ioErrorCounter   = metrics.NewRegisteredCounter("umbra/bytecode/ioerror", nil)
)

// Cache is a two-level cache of contract code: an in-process LRU in front of
// a directory with one file per account. A Cache is safe for concurrent use.
type Cache struct {
	store  store
	memory *lru.Cache[umbra.Address, []byte]
	log    log.Logger
}

// New creates a cache with the provided configuration.
func New(config Config) (*Cache, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("no cache directory configured")
	}
	if config.MemoryEntries == 0 {
		config.MemoryEntries = defaultMemoryEntries
	}
	if config.Logger == nil {
		config.Logger = log.Root()
	}

	store, err := openStore(config.Dir)
	if err != nil {
		return nil, err
	}

	var memory *lru.Cache[umbra.Address, []byte]
	if config.MemoryEntries > 0 {
		memory, err = lru.New[umbra.Address, []byte](config.MemoryEntries)
		if err != nil {
			return nil, err
		}
	}
	return &Cache{
		store:  store,
		memory: memory,
		log:    config.Logger,
	}, nil
}

// Key returns the name of the cache entry holding the code of addr.
func Key(addr umbra.Address) string {
	return entryPrefix + addr.String()
}

// Dir returns the directory holding the cache entries.
func (c *Cache) Dir() string {
	return c.store.dir
}

// GetOrFetch returns the code of addr, consulting the memory cache and the
// disk store before falling back to the fetcher. Fetched code is persisted
// before it is returned. Failures to persist are logged but do not fail the
// call.
func (c *Cache) GetOrFetch(ctx context.Context, addr umbra.Address, fetcher Fetcher) ([]byte, error) {
	if code, found := c.fromMemory(addr); found {
		memoryHitCounter.Inc(1)
		return code, nil
	}

	key := Key(addr)
	code, found, readErr := c.store.read(key)
	if readErr != nil {
		ioErrorCounter.Inc(1)
		c.log.Warn("Failed to read bytecode cache entry", "key", key, "err", readErr)
	} else if found {
		diskHitCounter.Inc(1)
		c.toMemory(addr, code)
		return bytes.Clone(code), nil
	}

	missCounter.Inc(1)
	code, err := fetcher.FetchCode(ctx, addr)
	if err != nil {
		if readErr != nil {
			return nil, errors.Join(err, readErr)
		}
		return nil, err
	}
	if err := c.store.write(key, code); err != nil {
		ioErrorCounter.Inc(1)
		c.log.Warn("Failed to write bytecode cache entry", "key", key, "err", err)
	}
	c.toMemory(addr, code)
	c.log.Debug("Cached bytecode", "address", addr, "size", len(code))
	return code, nil
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() error {
	if c.memory != nil {
		c.memory.Purge()
	}
	return c.store.clear()
}

func (c *Cache) fromMemory(addr umbra.Address) ([]byte, bool) {
	if c.memory == nil {
		return nil, false
	}
	code, found := c.memory.Get(addr)
	if !found {
		return nil, false
	}
	return bytes.Clone(code), true
}

func (c *Cache) toMemory(addr umbra.Address, code []byte) {
	if c.memory != nil {
		c.memory.Add(addr, bytes.Clone(code))
	}
}

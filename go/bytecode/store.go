// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package bytecode

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const entryPrefix = "bytecode-"

// store keeps one file per cache entry in a directory. Entries are written
// to a temporary file first and renamed into place, so readers never observe
// partial entries, even across processes sharing the directory.
type store struct {
	dir string
}

func openStore(dir string) (store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return store{}, &CacheIOError{Op: "create", Path: dir, Err: err}
	}
	return store{dir: dir}, nil
}

func (s store) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s store) read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &CacheIOError{Op: "read", Path: s.path(key), Err: err}
	}
	return data, true, nil
}

func (s store) write(key string, data []byte) (err error) {
	fail := func(op string, cause error) error {
		return &CacheIOError{Op: op, Path: s.path(key), Err: cause}
	}

	file, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return fail("create", err)
	}
	defer func() {
		if err != nil {
			os.Remove(file.Name())
		}
	}()

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fail("write", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fail("sync", err)
	}
	if err := file.Close(); err != nil {
		return fail("close", err)
	}
	if err := os.Rename(file.Name(), s.path(key)); err != nil {
		return fail("rename", err)
	}
	return nil
}

// clear removes all entries and left-over temporary files.
func (s store) clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return &CacheIOError{Op: "list", Path: s.dir, Err: err}
	}
	var errs []error
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, entryPrefix) && !strings.HasPrefix(name, "."+entryPrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			errs = append(errs, &CacheIOError{Op: "remove", Path: filepath.Join(s.dir, name), Err: err})
		}
	}
	return errors.Join(errs...)
}

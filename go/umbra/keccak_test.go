// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package umbra

import (
	"encoding/hex"
	"testing"
)

func TestKeccak256_KnownHashes(t *testing.T) {
	tests := map[string]string{
		"":    "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		"abc": "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
	}
	for input, want := range tests {
		got := Keccak256([]byte(input))
		if hex.EncodeToString(got[:]) != want {
			t.Errorf("unexpected hash of %q, wanted %v, got %v", input, want, got)
		}
	}
}

func TestKeccak256_HashesConcatenation(t *testing.T) {
	if Keccak256([]byte("ab"), []byte("c")) != Keccak256([]byte("abc")) {
		t.Errorf("hash of parts differs from hash of concatenation")
	}
}

func TestEmptyCodeHash(t *testing.T) {
	if EmptyCodeHash != Keccak256(nil) {
		t.Errorf("unexpected empty code hash %v", EmptyCodeHash)
	}
}

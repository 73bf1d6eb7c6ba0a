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
	"os"
	"path/filepath"
	"testing"

	"github.com/Fantom-foundation/Umbra/go/umbra"
	"golang.org/x/exp/slices"
)

func TestParseToken(t *testing.T) {
	weth := knownTokens["WETH"]
	custom := umbra.Address{0x12, 0x34}
	tests := map[string]struct {
		input string
		slot  int
		want  token
	}{
		"symbol":            {"WETH", -1, weth},
		"lower case symbol": {"weth", -1, weth},
		"known address":     {"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", -1, weth},
		"slot override":     {"WETH", 7, token{Symbol: "WETH", Address: weth.Address, BalanceSlot: 7}},
		"unknown address":   {custom.String(), -1, token{Symbol: custom.String(), Address: custom, BalanceSlot: -1}},
		"unknown with slot": {custom.String(), 0, token{Symbol: custom.String(), Address: custom, BalanceSlot: 0}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseToken(test.input, test.slot)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("unexpected token, wanted %+v, got %+v", test.want, got)
			}
		})
	}
}

func TestParseToken_RejectsUnknownSymbols(t *testing.T) {
	if _, err := parseToken("SHIB", -1); err == nil {
		t.Errorf("unknown symbol was accepted")
	}
}

func TestKnownSymbols_AreSorted(t *testing.T) {
	symbols := knownSymbols()
	if len(symbols) != len(knownTokens) || !slices.IsSorted(symbols) {
		t.Errorf("unexpected symbols %v", symbols)
	}
}

func TestIsWethUsdc(t *testing.T) {
	weth, usdc, dai := knownTokens["WETH"], knownTokens["USDC"], knownTokens["DAI"]
	if !isWethUsdc(weth, usdc) || !isWethUsdc(usdc, weth) {
		t.Errorf("WETH/USDC pair not recognized")
	}
	if isWethUsdc(weth, dai) || isWethUsdc(weth, weth) {
		t.Errorf("unexpected pair recognized")
	}
}

func TestReadCode(t *testing.T) {
	tests := map[string]struct {
		content string
		want    []byte
		valid   bool
	}{
		"prefixed":   {"0x6000\n", []byte{0x60, 0x00}, true},
		"raw":        {"  60016002 ", []byte{0x60, 0x01, 0x60, 0x02}, true},
		"empty":      {"", nil, false},
		"odd length": {"0x600", nil, false},
		"not hex":    {"0xzz", nil, false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "code.hex")
			if err := os.WriteFile(path, []byte(test.content), 0600); err != nil {
				t.Fatalf("failed to write code: %v", err)
			}
			got, err := readCode(path)
			if test.valid != (err == nil) {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, test.want) {
				t.Errorf("unexpected code %x", got)
			}
		})
	}
}

func TestReadCode_MissingFilesAreReported(t *testing.T) {
	if _, err := readCode(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("missing file was accepted")
	}
}

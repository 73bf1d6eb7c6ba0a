// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package remote

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/Fantom-foundation/Umbra/go/umbra"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"
)

var (
	knownAccount   = common.Address{0x01}
	failingAccount = common.Address{0x02}
)

type fakeNode struct {
	mutex    sync.Mutex
	head     *types.Header
	requests map[string][]string // method => requested blocks
}

func (n *fakeNode) record(method, block string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.requests[method] = append(n.requests[method], block)
}

func (n *fakeNode) ChainId() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(250))
}

func (n *fakeNode) GetBlockByNumber(block string, full bool) *types.Header {
	n.record("getBlockByNumber", block)
	return n.head
}

func (n *fakeNode) GetCode(addr common.Address, block string) (hexutil.Bytes, error) {
	n.record("getCode", block)
	if addr == failingAccount {
		return nil, errors.New("code unavailable")
	}
	return hexutil.Bytes{0x60, 0x00}, nil
}

func (n *fakeNode) GetBalance(addr common.Address, block string) (*hexutil.Big, error) {
	n.record("getBalance", block)
	if addr == failingAccount {
		return nil, errors.New("balance unavailable")
	}
	return (*hexutil.Big)(big.NewInt(1_000)), nil
}

func (n *fakeNode) GetTransactionCount(addr common.Address, block string) (hexutil.Uint64, error) {
	n.record("getTransactionCount", block)
	return 7, nil
}

func (n *fakeNode) GetStorageAt(addr common.Address, key common.Hash, block string) (hexutil.Bytes, error) {
	n.record("getStorageAt", block)
	if addr == failingAccount {
		return nil, errors.New("storage unavailable")
	}
	return key.Bytes(), nil
}

func newTestClient(t *testing.T, config Config) (*Client, *fakeNode) {
	t.Helper()
	node := &fakeNode{
		head: &types.Header{
			Number:     big.NewInt(100),
			Difficulty: big.NewInt(0),
			GasLimit:   30_000_000,
			Time:       1_700_000_000,
			BaseFee:    big.NewInt(7),
		},
		requests: map[string][]string{},
	}
	server := rpc.NewServer()
	if err := server.RegisterName("eth", node); err != nil {
		t.Fatalf("failed to register eth service: %v", err)
	}
	raw := rpc.DialInProc(server)
	t.Cleanup(func() {
		raw.Close()
		server.Stop()
	})

	client, err := NewClient(context.Background(), ethclient.NewClient(raw), config)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client, node
}

func TestClient_LatestBlockIsPinned(t *testing.T) {
	client, node := newTestClient(t, Config{})

	if _, err := client.FetchCode(context.Background(), umbra.Address(knownAccount)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.FetchStorage(context.Background(), umbra.Address(knownAccount), umbra.Key{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want, got := []string{"latest"}, node.requests["getBlockByNumber"]; len(got) != 1 || got[0] != want[0] {
		t.Errorf("unexpected header requests %v", got)
	}
	for _, method := range []string{"getCode", "getStorageAt"} {
		if got := node.requests[method]; len(got) != 1 || got[0] != "0x64" {
			t.Errorf("unexpected blocks requested by %s: %v", method, got)
		}
	}
	if got := client.Head().Number; got.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("unexpected head %v", got)
	}
}

func TestClient_ConfiguredBlockIsUsed(t *testing.T) {
	_, node := newTestClient(t, Config{Block: big.NewInt(100)})
	if got := node.requests["getBlockByNumber"]; len(got) != 1 || got[0] != "0x64" {
		t.Errorf("unexpected header requests %v", got)
	}
}

func TestClient_FetchAccount(t *testing.T) {
	client, node := newTestClient(t, Config{RequestsPerSecond: 1000})

	balance, nonce, err := client.FetchAccount(context.Background(), umbra.Address(knownAccount))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Eq(uint256.NewInt(1_000)) || nonce != 7 {
		t.Errorf("unexpected account, balance %v, nonce %d", balance, nonce)
	}
	if len(node.requests["getBalance"]) != 1 || len(node.requests["getTransactionCount"]) != 1 {
		t.Errorf("unexpected requests %v", node.requests)
	}
}

func TestClient_FetchStorageReturnsFullWords(t *testing.T) {
	client, _ := newTestClient(t, Config{})

	key := umbra.Key{31: 0x2a}
	value, err := client.FetchStorage(context.Background(), umbra.Address(knownAccount), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != umbra.Word(key) {
		t.Errorf("unexpected value %v", value)
	}
}

func TestClient_FailuresAreReportedAsRemoteErrors(t *testing.T) {
	client, _ := newTestClient(t, Config{})
	ctx := context.Background()
	addr := umbra.Address(failingAccount)

	tests := map[string]func() error{
		"getCode": func() error {
			_, err := client.FetchCode(ctx, addr)
			return err
		},
		"getBalance": func() error {
			_, _, err := client.FetchAccount(ctx, addr)
			return err
		},
		"getStorageAt": func() error {
			_, err := client.FetchStorage(ctx, addr, umbra.Key{})
			return err
		},
	}
	for method, fetch := range tests {
		t.Run(method, func(t *testing.T) {
			var remoteErr *RemoteError
			if err := fetch(); !errors.As(err, &remoteErr) {
				t.Fatalf("expected a remote error, got %v", err)
			}
			if remoteErr.Method != method || remoteErr.Address != addr {
				t.Errorf("unexpected error content %v", remoteErr)
			}
		})
	}
}

func TestClient_CancelledRequestsAreNotSent(t *testing.T) {
	client, node := newTestClient(t, Config{RequestsPerSecond: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchCode(ctx, umbra.Address(knownAccount))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
	if len(node.requests["getCode"]) != 0 {
		t.Errorf("request was sent")
	}
}

func TestClient_BlockParametersDescribePinnedBlock(t *testing.T) {
	client, _ := newTestClient(t, Config{})

	params, err := client.BlockParameters(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := umbra.WordFromUint256(uint256.NewInt(250)); params.ChainID != want {
		t.Errorf("unexpected chain id %v", params.ChainID)
	}
	if params.BlockNumber != 100 || params.Timestamp != 1_700_000_000 || params.GasLimit != 30_000_000 {
		t.Errorf("unexpected block parameters %+v", params)
	}
	if params.BaseFee != umbra.NewValue(7) {
		t.Errorf("unexpected base fee %v", params.BaseFee)
	}
	if params.Revision != umbra.R11_Paris {
		t.Errorf("unexpected revision %v", params.Revision)
	}
}

func TestRevisionOf(t *testing.T) {
	excessBlobGas := uint64(0)
	withdrawals := common.Hash{}
	tests := map[umbra.Revision]*types.Header{
		umbra.R09_Berlin:   {Difficulty: big.NewInt(1)},
		umbra.R10_London:   {Difficulty: big.NewInt(1), BaseFee: big.NewInt(1)},
		umbra.R11_Paris:    {Difficulty: big.NewInt(0), BaseFee: big.NewInt(1)},
		umbra.R12_Shanghai: {Difficulty: big.NewInt(0), BaseFee: big.NewInt(1), WithdrawalsHash: &withdrawals},
		umbra.R13_Cancun:   {Difficulty: big.NewInt(0), BaseFee: big.NewInt(1), WithdrawalsHash: &withdrawals, ExcessBlobGas: &excessBlobGas},
	}
	for want, header := range tests {
		if got := revisionOf(header); got != want {
			t.Errorf("unexpected revision, wanted %v, got %v", want, got)
		}
	}
}

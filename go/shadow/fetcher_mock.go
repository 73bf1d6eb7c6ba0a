// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package shadow is a generated GoMock package.
package shadow

import (
	context "context"
	reflect "reflect"

	bytecode "github.com/Fantom-foundation/Umbra/go/bytecode"
	umbra "github.com/Fantom-foundation/Umbra/go/umbra"
	uint256 "github.com/holiman/uint256"
	gomock "go.uber.org/mock/gomock"
)

// MockRemoteFetcher is a mock of RemoteFetcher interface.
type MockRemoteFetcher struct {
	ctrl     *gomock.Controller
	recorder *MockRemoteFetcherMockRecorder
}

// MockRemoteFetcherMockRecorder is the mock recorder for MockRemoteFetcher.
type MockRemoteFetcherMockRecorder struct {
	mock *MockRemoteFetcher
}

// NewMockRemoteFetcher creates a new mock instance.
func NewMockRemoteFetcher(ctrl *gomock.Controller) *MockRemoteFetcher {
	mock := &MockRemoteFetcher{ctrl: ctrl}
	mock.recorder = &MockRemoteFetcherMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRemoteFetcher) EXPECT() *MockRemoteFetcherMockRecorder {
	return m.recorder
}

// FetchAccount mocks base method.
func (m *MockRemoteFetcher) FetchAccount(ctx context.Context, addr umbra.Address) (*uint256.Int, uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FetchAccount", ctx, addr)
	ret0, _ := ret[0].(*uint256.Int)
	ret1, _ := ret[1].(uint64)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// FetchAccount indicates an expected call of FetchAccount.
func (mr *MockRemoteFetcherMockRecorder) FetchAccount(ctx, addr any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FetchAccount", reflect.TypeOf((*MockRemoteFetcher)(nil).FetchAccount), ctx, addr)
}

// FetchCode mocks base method.
func (m *MockRemoteFetcher) FetchCode(ctx context.Context, addr umbra.Address) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FetchCode", ctx, addr)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FetchCode indicates an expected call of FetchCode.
func (mr *MockRemoteFetcherMockRecorder) FetchCode(ctx, addr any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FetchCode", reflect.TypeOf((*MockRemoteFetcher)(nil).FetchCode), ctx, addr)
}

// FetchStorage mocks base method.
func (m *MockRemoteFetcher) FetchStorage(ctx context.Context, addr umbra.Address, key umbra.Key) (umbra.Word, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FetchStorage", ctx, addr, key)
	ret0, _ := ret[0].(umbra.Word)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FetchStorage indicates an expected call of FetchStorage.
func (mr *MockRemoteFetcherMockRecorder) FetchStorage(ctx, addr, key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FetchStorage", reflect.TypeOf((*MockRemoteFetcher)(nil).FetchStorage), ctx, addr, key)
}

// MockCodeSource is a mock of CodeSource interface.
type MockCodeSource struct {
	ctrl     *gomock.Controller
	recorder *MockCodeSourceMockRecorder
}

// MockCodeSourceMockRecorder is the mock recorder for MockCodeSource.
type MockCodeSourceMockRecorder struct {
	mock *MockCodeSource
}

// NewMockCodeSource creates a new mock instance.
func NewMockCodeSource(ctrl *gomock.Controller) *MockCodeSource {
	mock := &MockCodeSource{ctrl: ctrl}
	mock.recorder = &MockCodeSourceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCodeSource) EXPECT() *MockCodeSourceMockRecorder {
	return m.recorder
}

// GetOrFetch mocks base method.
func (m *MockCodeSource) GetOrFetch(ctx context.Context, addr umbra.Address, fetcher bytecode.Fetcher) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOrFetch", ctx, addr, fetcher)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetOrFetch indicates an expected call of GetOrFetch.
func (mr *MockCodeSourceMockRecorder) GetOrFetch(ctx, addr, fetcher any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOrFetch", reflect.TypeOf((*MockCodeSource)(nil).GetOrFetch), ctx, addr, fetcher)
}

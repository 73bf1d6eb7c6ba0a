// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"fmt"

	"github.com/Fantom-foundation/Umbra/go/umbra"
)

// OutcomeKind distinguishes the regular ends of a call.
type OutcomeKind int

const (
	// Success indicates a call ending with STOP or RETURN.
	Success OutcomeKind = iota
	// Revert indicates a call ending with REVERT. The outcome's output is
	// the revert payload.
	Revert
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Revert:
		return "revert"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", k)
	}
}

// Outcome summarizes a completed call.
type Outcome struct {
	Kind    OutcomeKind
	Output  umbra.Data
	GasUsed umbra.Gas
	Logs    []umbra.Log
}

// ExecutionError is returned for calls that could not be completed, either
// because the EVM halted exceptionally or because the state backing the call
// could not be loaded.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

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
	"fmt"

	"github.com/Fantom-foundation/Umbra/go/processor"
	"github.com/Fantom-foundation/Umbra/go/umbra"
)

const ErrNoRoute = umbra.ConstError("route has no hops")

// UnexpectedOutcomeError is reported when a quoting contract ends a call in
// a way its path does not report results with.
type UnexpectedOutcomeError struct {
	Want processor.OutcomeKind
	Got  processor.Outcome
}

func (e *UnexpectedOutcomeError) Error() string {
	return fmt.Sprintf("expected %v outcome, got %v with output 0x%x", e.Want, e.Got.Kind, []byte(e.Got.Output))
}

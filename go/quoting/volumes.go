// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package quoting evaluates swap routes over a range of input volumes by
// executing quoting contracts against shadow states.
package quoting

import "github.com/holiman/uint256"

// Volumes splits the range between from and to into count even steps and
// returns the multiples of the step in descending order, starting with
// count*step. Volumes returns nil if count is not positive or if to is
// less than from.
func Volumes(from, to *uint256.Int, count int) []*uint256.Int {
	if count <= 0 || to.Lt(from) {
		return nil
	}
	step := new(uint256.Int).Sub(to, from)
	step.Div(step, uint256.NewInt(uint64(count)))

	res := make([]*uint256.Int, 0, count)
	for i := count; i > 0; i-- {
		res = append(res, new(uint256.Int).Mul(step, uint256.NewInt(uint64(i))))
	}
	return res
}

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

import "fmt"

// Revision enumerates the hard forks simulated calls may be executed under.
type Revision int

const (
	R07_Istanbul Revision = iota
	R09_Berlin
	R10_London
	R11_Paris
	R12_Shanghai
	R13_Cancun
)

// NewestSupportedRevision is the revision used when none is configured.
const NewestSupportedRevision = R13_Cancun

var revisionNames = map[Revision]string{
	R07_Istanbul: "Istanbul",
	R09_Berlin:   "Berlin",
	R10_London:   "London",
	R11_Paris:    "Paris",
	R12_Shanghai: "Shanghai",
	R13_Cancun:   "Cancun",
}

func (r Revision) String() string {
	if name, found := revisionNames[r]; found {
		return name
	}
	return fmt.Sprintf("Revision(%d)", r)
}

// ParseRevision resolves a revision by its name, e.g. "Cancun".
func ParseRevision(name string) (Revision, error) {
	for revision, cur := range revisionNames {
		if cur == name {
			return revision, nil
		}
	}
	return 0, fmt.Errorf("unknown revision %q", name)
}

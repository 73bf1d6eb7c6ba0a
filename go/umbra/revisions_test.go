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

import "testing"

func TestRevision_ParseRoundTrip(t *testing.T) {
	for revision := R07_Istanbul; revision <= R13_Cancun; revision++ {
		parsed, err := ParseRevision(revision.String())
		if err != nil {
			t.Fatalf("failed to parse %v: %v", revision, err)
		}
		if parsed != revision {
			t.Errorf("unexpected revision, wanted %v, got %v", revision, parsed)
		}
	}
}

func TestRevision_UnknownNamesAreRejected(t *testing.T) {
	if _, err := ParseRevision("Frontier"); err == nil {
		t.Errorf("expected unknown revision to be rejected")
	}
}

func TestRevision_UnknownRevisionsArePrintedByNumber(t *testing.T) {
	if want, got := "Revision(42)", Revision(42).String(); want != got {
		t.Errorf("unexpected name, wanted %v, got %v", want, got)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

import (
	"sort"

	"github.com/oklog/ulid/v2"
)

// TeamSnapshot is the slice of team state NextNominator needs. It is a
// plain value so turn order stays a pure function of persisted state.
type TeamSnapshot struct {
	ID              ulid.ULID
	NominationOrder int
	Active          bool
	PicksMade       int
	Capacity        int
}

// Eligible reports whether the team may still nominate: it must be active
// and have at least one unfilled roster slot.
func (t TeamSnapshot) Eligible() bool {
	return t.Active && t.PicksMade < t.Capacity
}

// NextNominator selects the team whose nomination order immediately follows
// the last nominator, cyclically, skipping ineligible teams. A nil
// lastNominator starts from the lowest order. The second return is false
// when no eligible team remains and the auction should be completed.
func NextNominator(lastNominator *ulid.ULID, teams []TeamSnapshot) (ulid.ULID, bool) {
	if len(teams) == 0 {
		return ulid.ULID{}, false
	}

	ordered := make([]TeamSnapshot, len(teams))
	copy(ordered, teams)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].NominationOrder < ordered[j].NominationOrder
	})

	start := 0
	if lastNominator != nil {
		for i, t := range ordered {
			if t.ID == *lastNominator {
				start = i + 1
				break
			}
		}
	}

	for i := 0; i < len(ordered); i++ {
		candidate := ordered[(start+i)%len(ordered)]
		if candidate.Eligible() {
			return candidate.ID, true
		}
	}
	return ulid.ULID{}, false
}

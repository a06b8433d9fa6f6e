// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

// RosterLedger is a team's capacity and spend position at an instant.
// All arithmetic is exact integer math on whole currency units.
//
// The reserve invariant: after any commitment a team must retain at least
// one unit of budget per still-unfilled roster slot, so every slot remains
// fillable with a minimum bid.
type RosterLedger struct {
	Capacity        int
	PicksMade       int
	RemainingBudget int64
}

// RemainingSlots returns the number of unfilled roster slots.
func (l RosterLedger) RemainingSlots() int {
	if l.PicksMade >= l.Capacity {
		return 0
	}
	return l.Capacity - l.PicksMade
}

// Reserve returns the budget that must stay untouched for the slots left
// after winning the current round.
func (l RosterLedger) Reserve() int64 {
	slots := l.RemainingSlots()
	if slots <= 1 {
		return 0
	}
	return int64(slots - 1)
}

// MaxBid returns the highest amount the team can commit to a single item
// without violating the reserve invariant. Zero when no slot remains or
// the budget cannot cover the reserve.
func (l RosterLedger) MaxBid() int64 {
	if l.RemainingSlots() < 1 {
		return 0
	}
	maxBid := l.RemainingBudget - l.Reserve()
	if maxBid < 0 {
		return 0
	}
	return maxBid
}

// CanAfford reports whether committing amount keeps the reserve intact.
func (l RosterLedger) CanAfford(amount int64) bool {
	return l.RemainingSlots() >= 1 && amount <= l.MaxBid()
}

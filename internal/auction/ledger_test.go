// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRosterLedger_RemainingSlots(t *testing.T) {
	tests := []struct {
		name     string
		ledger   RosterLedger
		expected int
	}{
		{"empty roster", RosterLedger{Capacity: 5, PicksMade: 0}, 5},
		{"partially filled", RosterLedger{Capacity: 5, PicksMade: 3}, 2},
		{"full roster", RosterLedger{Capacity: 5, PicksMade: 5}, 0},
		{"over capacity clamps to zero", RosterLedger{Capacity: 5, PicksMade: 7}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ledger.RemainingSlots())
		})
	}
}

func TestRosterLedger_MaxBid(t *testing.T) {
	tests := []struct {
		name     string
		ledger   RosterLedger
		expected int64
	}{
		{
			// The spec's worked example: budget 10, 3 open slots -> 10-(3-1)=8.
			name:     "reserves one unit per remaining slot",
			ledger:   RosterLedger{Capacity: 3, PicksMade: 0, RemainingBudget: 10},
			expected: 8,
		},
		{
			name:     "last slot can take the whole budget",
			ledger:   RosterLedger{Capacity: 3, PicksMade: 2, RemainingBudget: 10},
			expected: 10,
		},
		{
			name:     "no slots left",
			ledger:   RosterLedger{Capacity: 3, PicksMade: 3, RemainingBudget: 10},
			expected: 0,
		},
		{
			name:     "budget below reserve",
			ledger:   RosterLedger{Capacity: 10, PicksMade: 0, RemainingBudget: 5},
			expected: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ledger.MaxBid())
		})
	}
}

func TestRosterLedger_CanAfford(t *testing.T) {
	ledger := RosterLedger{Capacity: 3, PicksMade: 0, RemainingBudget: 10}

	assert.True(t, ledger.CanAfford(1))
	assert.True(t, ledger.CanAfford(8))
	assert.False(t, ledger.CanAfford(9))

	full := RosterLedger{Capacity: 3, PicksMade: 3, RemainingBudget: 10}
	assert.False(t, full.CanAfford(1))
}

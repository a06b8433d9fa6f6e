// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotTeam(order int) TeamSnapshot {
	return TeamSnapshot{
		ID:              ulid.Make(),
		NominationOrder: order,
		Active:          true,
		PicksMade:       0,
		Capacity:        3,
	}
}

func TestNextNominator_RoundRobin(t *testing.T) {
	a := snapshotTeam(1)
	b := snapshotTeam(2)
	c := snapshotTeam(3)
	teams := []TeamSnapshot{c, a, b} // deliberately unsorted

	next, ok := NextNominator(&a.ID, teams)
	require.True(t, ok)
	assert.Equal(t, b.ID, next)

	next, ok = NextNominator(&b.ID, teams)
	require.True(t, ok)
	assert.Equal(t, c.ID, next)

	// Wraps around after the last team.
	next, ok = NextNominator(&c.ID, teams)
	require.True(t, ok)
	assert.Equal(t, a.ID, next)
}

func TestNextNominator_NoLastNominatorStartsAtLowestOrder(t *testing.T) {
	a := snapshotTeam(1)
	b := snapshotTeam(2)

	next, ok := NextNominator(nil, []TeamSnapshot{b, a})
	require.True(t, ok)
	assert.Equal(t, a.ID, next)
}

func TestNextNominator_SkipsInactiveTeams(t *testing.T) {
	a := snapshotTeam(1)
	b := snapshotTeam(2)
	b.Active = false
	c := snapshotTeam(3)

	next, ok := NextNominator(&a.ID, []TeamSnapshot{a, b, c})
	require.True(t, ok)
	assert.Equal(t, c.ID, next)
}

func TestNextNominator_SkipsFullRosters(t *testing.T) {
	a := snapshotTeam(1)
	b := snapshotTeam(2)
	b.PicksMade = b.Capacity
	c := snapshotTeam(3)

	next, ok := NextNominator(&a.ID, []TeamSnapshot{a, b, c})
	require.True(t, ok)
	assert.Equal(t, c.ID, next)
}

func TestNextNominator_NoneEligible(t *testing.T) {
	a := snapshotTeam(1)
	a.PicksMade = a.Capacity
	b := snapshotTeam(2)
	b.Active = false

	_, ok := NextNominator(&a.ID, []TeamSnapshot{a, b})
	assert.False(t, ok)
}

func TestNextNominator_LastNominatorMayRepeatWhenOnlyEligible(t *testing.T) {
	a := snapshotTeam(1)
	b := snapshotTeam(2)
	b.PicksMade = b.Capacity

	next, ok := NextNominator(&a.ID, []TeamSnapshot{a, b})
	require.True(t, ok)
	assert.Equal(t, a.ID, next)
}

func TestNextNominator_EmptyTeams(t *testing.T) {
	_, ok := NextNominator(nil, nil)
	assert.False(t, ok)
}

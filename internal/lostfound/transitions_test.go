// internal/lostfound/transitions_test.go
package lostfound

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestLostTransitions(t *testing.T) {
	cases := []struct {
		from, to LostStatus
		legal    bool
	}{
		{LostReported, LostFound, true},
		{LostReported, LostMatched, true},
		{LostReported, LostUnclaimed, true},
		{LostReported, LostArchived, true},
		{LostReported, LostClaimed, false},
		{LostFound, LostMatched, true},
		{LostFound, LostClaimed, false},
		{LostMatched, LostClaimed, true},
		{LostMatched, LostArchived, true},
		{LostMatched, LostReported, false},
		{LostUnclaimed, LostArchived, true},
		{LostUnclaimed, LostMatched, false},
		{LostClaimed, LostArchived, false},
		{LostArchived, LostReported, false},
		{LostArchived, LostArchived, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.legal, LostCanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestFoundTransitions(t *testing.T) {
	cases := []struct {
		from, to FoundStatus
		legal    bool
	}{
		{FoundLogged, FoundMatched, true},
		{FoundLogged, FoundClaimed, true},
		{FoundLogged, FoundUnclaimed, true},
		{FoundLogged, FoundArchived, true},
		{FoundMatched, FoundClaimed, true},
		{FoundMatched, FoundArchived, true},
		{FoundMatched, FoundLogged, false},
		{FoundUnclaimed, FoundArchived, true},
		{FoundUnclaimed, FoundClaimed, false},
		{FoundClaimed, FoundArchived, false},
		{FoundArchived, FoundLogged, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.legal, FoundCanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatesHaveNoEdges(t *testing.T) {
	assert.True(t, LostTerminal(LostClaimed))
	assert.True(t, LostTerminal(LostArchived))
	assert.False(t, LostTerminal(LostReported))
	assert.True(t, FoundTerminal(FoundClaimed))
	assert.True(t, FoundTerminal(FoundArchived))
	assert.False(t, FoundTerminal(FoundLogged))
}

var allLostStatuses = []LostStatus{
	LostReported, LostFound, LostMatched, LostClaimed, LostUnclaimed, LostArchived,
}

var allFoundStatuses = []FoundStatus{
	FoundLogged, FoundMatched, FoundClaimed, FoundUnclaimed, FoundArchived,
}

// Walking the lost state machine along legal edges can never leave a
// terminal state, and never revisits a status already passed.
func TestLostMachineProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		current := LostReported
		seen := map[LostStatus]bool{current: true}

		steps := rapid.IntRange(0, 10).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			next := rapid.SampledFrom(allLostStatuses).Draw(t, "next")
			if !LostCanTransition(current, next) {
				continue
			}
			if LostTerminal(current) {
				t.Fatalf("terminal status %s still has edge to %s", current, next)
			}
			if seen[next] {
				t.Fatalf("status %s reachable twice", next)
			}
			seen[next] = true
			current = next
		}
	})
}

func TestFoundMachineProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		current := FoundLogged
		seen := map[FoundStatus]bool{current: true}

		steps := rapid.IntRange(0, 10).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			next := rapid.SampledFrom(allFoundStatuses).Draw(t, "next")
			if !FoundCanTransition(current, next) {
				continue
			}
			if FoundTerminal(current) {
				t.Fatalf("terminal status %s still has edge to %s", current, next)
			}
			if seen[next] {
				t.Fatalf("status %s reachable twice", next)
			}
			seen[next] = true
			current = next
		}
	})
}

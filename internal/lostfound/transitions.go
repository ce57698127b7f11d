// internal/lostfound/transitions.go
package lostfound

// The two state machines are encoded as explicit edge tables so that every
// legal transition is visible in one place and anything absent is illegal.

var lostEdges = map[LostStatus]map[LostStatus]bool{
	LostReported: {
		LostFound:     true,
		LostMatched:   true,
		LostUnclaimed: true,
		LostArchived:  true,
	},
	LostFound: {
		LostMatched:  true,
		LostArchived: true,
	},
	LostMatched: {
		LostClaimed:  true,
		LostArchived: true,
	},
	LostUnclaimed: {
		LostArchived: true,
	},
	// Claimed and Archived are terminal.
	LostClaimed:  {},
	LostArchived: {},
}

var foundEdges = map[FoundStatus]map[FoundStatus]bool{
	FoundLogged: {
		FoundMatched:   true,
		FoundClaimed:   true,
		FoundUnclaimed: true,
		FoundArchived:  true,
	},
	FoundMatched: {
		FoundClaimed:  true,
		FoundArchived: true,
	},
	FoundUnclaimed: {
		FoundArchived: true,
	},
	FoundClaimed:  {},
	FoundArchived: {},
}

// LostCanTransition reports whether a lost report may move from one status
// to another.
func LostCanTransition(from, to LostStatus) bool {
	return lostEdges[from][to]
}

// FoundCanTransition reports whether a found item may move from one status
// to another.
func FoundCanTransition(from, to FoundStatus) bool {
	return foundEdges[from][to]
}

// LostTerminal reports whether the status has no outgoing edges.
func LostTerminal(s LostStatus) bool {
	return len(lostEdges[s]) == 0
}

// FoundTerminal reports whether the status has no outgoing edges.
func FoundTerminal(s FoundStatus) bool {
	return len(foundEdges[s]) == 0
}

// internal/stats/implementation.go
package stats

import (
	"context"
	"fmt"

	"reclaim/internal/lostfound"
	"reclaim/internal/recordstore"
)

// service implements the Service interface.
type service struct {
	store recordstore.Store
}

// NewService creates a new statistics service instance.
func NewService(store recordstore.Store) Service {
	return &service{store: store}
}

// Snapshot recomputes every figure from the current counts. The claimed
// total counts lost reports: a claim always moves the report when a pairing
// exists, so the report side is the canonical one.
func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	lost, err := s.store.CountLostByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregating lost reports: %w", err)
	}
	found, err := s.store.CountFoundByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregating found items: %w", err)
	}

	snap := &Snapshot{}
	for _, n := range lost {
		snap.TotalLost += n
	}
	for _, n := range found {
		snap.TotalFound += n
	}
	snap.TotalClaimed = lost[lostfound.LostClaimed]
	snap.TotalMatched = lost[lostfound.LostMatched] + found[lostfound.FoundMatched]
	snap.TotalArchived = lost[lostfound.LostArchived] + found[lostfound.FoundArchived]

	if snap.TotalLost > 0 {
		snap.FoundRate = float64(snap.TotalFound) / float64(snap.TotalLost)
	}
	if snap.TotalFound > 0 {
		snap.ClaimRate = float64(snap.TotalClaimed) / float64(snap.TotalFound)
	}
	return snap, nil
}

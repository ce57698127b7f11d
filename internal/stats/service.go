// internal/stats/service.go
package stats

import "context"

// Snapshot is a point-in-time aggregation over the record store. The ratios
// are derived on read and never persisted, so they cannot drift from the
// authoritative record state.
type Snapshot struct {
	TotalLost     int     `json:"total_lost"`
	TotalFound    int     `json:"total_found"`
	TotalClaimed  int     `json:"total_claimed"`
	TotalMatched  int     `json:"total_matched"`
	TotalArchived int     `json:"total_archived"`
	FoundRate     float64 `json:"found_rate"`
	ClaimRate     float64 `json:"claim_rate"`
}

// Service defines the interface for the statistics aggregator. It reads the
// record store and has no write path.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

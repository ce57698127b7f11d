// internal/matching/service.go
package matching

import (
	"context"

	"reclaim/internal/lostfound"
)

// Result is the outcome of a successful match. Warning is non-empty when the
// pairing committed but the follow-up notification could not be created; the
// transition is the durable effect and is never rolled back for that.
type Result struct {
	FoundItem  *lostfound.FoundItem    `json:"found_item"`
	LostReport *lostfound.LostReport   `json:"lost_report"`
	Notified   *lostfound.Notification `json:"notified,omitempty"`
	Warning    string                  `json:"warning,omitempty"`
}

// Service defines the interface for the matching service.
type Service interface {
	Match(ctx context.Context, foundItemID, caseNumber string) (*Result, error)
}

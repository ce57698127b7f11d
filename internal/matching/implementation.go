// internal/matching/implementation.go
package matching

import (
	"context"
	"fmt"
	"log"

	"reclaim/internal/lostfound"
	"reclaim/internal/notification"
	"reclaim/internal/recordstore"
)

// service implements the Service interface.
type service struct {
	store    recordstore.Store
	notifier notification.Service
}

// NewService creates a new matching service instance.
func NewService(store recordstore.Store, notifier notification.Service) Service {
	return &service{store: store, notifier: notifier}
}

// Match pairs a found item with a lost report. The store applies both
// conditional updates in one transaction, so two admins racing to match the
// same record leave exactly one winner; the loser sees AlreadyMatched or
// Conflict. There is no automatic unmatch: reversing a match is an explicit
// admin correction through the archive and delete paths.
func (s *service) Match(ctx context.Context, foundItemID, caseNumber string) (*Result, error) {
	item, report, err := s.store.Pair(ctx, foundItemID, caseNumber)
	if err != nil {
		return nil, fmt.Errorf("matching item %s to case %s: %w", foundItemID, caseNumber, err)
	}

	result := &Result{FoundItem: item, LostReport: report}

	// The pairing is committed at this point. A notification failure is
	// reported as a partial-success warning, never a rollback.
	msg := fmt.Sprintf("A found item matching your report %q has been identified (case %s).", report.ItemName, caseNumber)
	n, err := s.notifier.Notify(ctx, caseNumber, report.ReporterID, lostfound.NotifyMatchFound, msg)
	if err != nil {
		log.Printf("match committed but notification failed for case %s: %v", caseNumber, err)
		result.Warning = fmt.Sprintf("match committed; notification not created: %v", err)
		return result, nil
	}

	result.Notified = n
	return result, nil
}

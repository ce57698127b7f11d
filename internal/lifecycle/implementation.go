// internal/lifecycle/implementation.go
package lifecycle

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"reclaim/internal/admingate"
	"reclaim/internal/lostfound"
	"reclaim/internal/notification"
	"reclaim/internal/recordstore"

	"github.com/google/uuid"
)

// service implements the Service interface.
type service struct {
	store     recordstore.Store
	notifier  notification.Service
	directory Directory
	now       func() time.Time
}

// NewService creates a new lifecycle service instance.
func NewService(store recordstore.Store, notifier notification.Service, directory Directory) Service {
	return &service{
		store:     store,
		notifier:  notifier,
		directory: directory,
		now:       time.Now,
	}
}

// CreateLostReport registers a new report in status Reported.
func (s *service) CreateLostReport(ctx context.Context, draft ReportDraft) (*lostfound.LostReport, error) {
	report := &lostfound.LostReport{
		CaseNumber:       uuid.NewString(),
		ReporterID:       draft.ReporterID,
		ItemName:         draft.ItemName,
		ItemType:         draft.ItemType,
		ItemColor:        draft.ItemColor,
		Brand:            draft.Brand,
		Description:      draft.Description,
		LastSeenDate:     draft.LastSeenDate,
		LastSeenLocation: draft.LastSeenLocation,
		Status:           lostfound.LostReported,
		DateReported:     s.now().UTC(),
	}

	if err := s.store.CreateLostReport(ctx, report); err != nil {
		return nil, fmt.Errorf("creating lost report: %w", err)
	}
	return report, nil
}

// LogFoundItem registers a recovered item in status Found.
func (s *service) LogFoundItem(ctx context.Context, draft FoundDraft) (*lostfound.FoundItem, error) {
	item := &lostfound.FoundItem{
		FoundItemID:       uuid.NewString(),
		ItemName:          draft.ItemName,
		ItemColor:         draft.ItemColor,
		FoundDate:         draft.FoundDate,
		FoundLocation:     draft.FoundLocation,
		Description:       draft.Description,
		CustodianOfficeID: draft.CustodianOfficeID,
		Status:            lostfound.FoundLogged,
	}
	if item.FoundDate.IsZero() {
		item.FoundDate = s.now().UTC()
	}

	if err := s.store.CreateFoundItem(ctx, item); err != nil {
		return nil, fmt.Errorf("logging found item: %w", err)
	}
	return item, nil
}

func (s *service) GetLostReport(ctx context.Context, caseNumber string) (*lostfound.LostReport, error) {
	return s.store.GetLostReport(ctx, caseNumber)
}

func (s *service) GetFoundItem(ctx context.Context, foundItemID string) (*lostfound.FoundItem, error) {
	return s.store.GetFoundItem(ctx, foundItemID)
}

// MarkLostAsFound signals that a reported item turned up. It is decoupled
// from matching: the report moves to Found without requiring a paired found
// item, and a MarkedFound notification goes to the reporter.
func (s *service) MarkLostAsFound(ctx context.Context, caseNumber string) (*Result, error) {
	const op = "lifecycle.mark_lost_as_found"

	report, err := s.store.GetLostReport(ctx, caseNumber)
	if err != nil {
		return nil, err
	}
	if report.Status != lostfound.LostReported {
		return nil, lostfound.Faultf(lostfound.KindInvalidTransition, op, "case %s is %s, want Reported", caseNumber, report.Status)
	}

	updated, err := s.store.TransitionLost(ctx, caseNumber,
		[]lostfound.LostStatus{lostfound.LostReported}, lostfound.LostFound, recordstore.LostPatch{})
	if err != nil {
		return nil, err
	}

	result := &Result{LostReport: updated}
	msg := fmt.Sprintf("Your report %q (case %s) has been marked as found.", updated.ItemName, caseNumber)
	n, err := s.notifier.Notify(ctx, caseNumber, updated.ReporterID, lostfound.NotifyMarkedFound, msg)
	if err != nil {
		log.Printf("transition committed but notification failed for case %s: %v", caseNumber, err)
		result.Warning = fmt.Sprintf("transition committed; notification not created: %v", err)
		return result, nil
	}
	result.Notified = n
	return result, nil
}

// MarkFoundAsClaimed hands a found item back. A paired lost report is moved
// to Claimed in the same transaction; the claim re-validates state
// server-side no matter what the caller believed was eligible.
func (s *service) MarkFoundAsClaimed(ctx context.Context, foundItemID string) (*Result, error) {
	item, report, err := s.store.ClaimPair(ctx, foundItemID)
	if err != nil {
		return nil, err
	}
	return &Result{FoundItem: item, LostReport: report}, nil
}

// ArchiveLostReport retires a report. Matched reports archive
// unconditionally; anything not Claimed or Archived becomes archivable once
// the report has idled past the retention window. The gate check runs before
// the policy is evaluated.
func (s *service) ArchiveLostReport(ctx context.Context, grant admingate.Grant, caseNumber string) (*lostfound.LostReport, error) {
	const op = "lifecycle.archive_lost_report"

	if err := admingate.Require(grant, op); err != nil {
		return nil, err
	}

	report, err := s.store.GetLostReport(ctx, caseNumber)
	if err != nil {
		return nil, err
	}

	switch {
	case report.Status == lostfound.LostMatched:
	case report.Status != lostfound.LostClaimed && report.Status != lostfound.LostArchived && report.IdleExpired(s.now()):
	default:
		return nil, lostfound.Faultf(lostfound.KindPolicyViolation, op,
			"case %s is %s and within the retention window", caseNumber, report.Status)
	}

	// Archiving ends any pairing: the matched id only lives on records in
	// Matched or Claimed.
	archivedAt := s.now().UTC()
	return s.store.TransitionLost(ctx, caseNumber,
		[]lostfound.LostStatus{report.Status}, lostfound.LostArchived,
		recordstore.LostPatch{ClearMatched: true, ArchivedAt: &archivedAt})
}

// ArchiveFoundItem retires a found item with its disposition.
func (s *service) ArchiveFoundItem(ctx context.Context, grant admingate.Grant, foundItemID, disposition string) (*lostfound.FoundItem, error) {
	const op = "lifecycle.archive_found_item"

	if err := admingate.Require(grant, op); err != nil {
		return nil, err
	}

	item, err := s.store.GetFoundItem(ctx, foundItemID)
	if err != nil {
		return nil, err
	}
	if !lostfound.FoundCanTransition(item.Status, lostfound.FoundArchived) {
		return nil, lostfound.Faultf(lostfound.KindInvalidTransition, op, "item %s is %s", foundItemID, item.Status)
	}

	archivedAt := s.now().UTC()
	return s.store.TransitionFound(ctx, foundItemID,
		[]lostfound.FoundStatus{item.Status}, lostfound.FoundArchived,
		recordstore.FoundPatch{ClearMatched: true, Disposition: disposition, ArchivedAt: &archivedAt})
}

// DeleteLostReport hard-deletes a report. A report with a matched found item
// is never cascaded: the match must be unwound through the archive path
// first, so the delete fails DependencyExists.
func (s *service) DeleteLostReport(ctx context.Context, grant admingate.Grant, caseNumber string) error {
	const op = "lifecycle.delete_lost_report"

	if err := admingate.Require(grant, op); err != nil {
		return err
	}

	report, err := s.store.GetLostReport(ctx, caseNumber)
	if err != nil {
		return err
	}
	if report.MatchedFoundItemID != "" {
		return lostfound.Faultf(lostfound.KindDependencyExists, op,
			"case %s is matched to found item %s", caseNumber, report.MatchedFoundItemID)
	}
	if report.Status != lostfound.LostReported && report.Status != lostfound.LostUnclaimed {
		return lostfound.Faultf(lostfound.KindDependencyExists, op,
			"case %s is %s, only Reported or Unclaimed reports may be deleted", caseNumber, report.Status)
	}

	return s.store.DeleteLostReport(ctx, caseNumber,
		[]lostfound.LostStatus{lostfound.LostReported, lostfound.LostUnclaimed})
}

// MarkLostAsUnclaimed records that a report's window expired without a claim.
func (s *service) MarkLostAsUnclaimed(ctx context.Context, grant admingate.Grant, caseNumber string) (*lostfound.LostReport, error) {
	const op = "lifecycle.mark_lost_as_unclaimed"

	if err := admingate.Require(grant, op); err != nil {
		return nil, err
	}

	report, err := s.store.GetLostReport(ctx, caseNumber)
	if err != nil {
		return nil, err
	}
	if !lostfound.LostCanTransition(report.Status, lostfound.LostUnclaimed) {
		return nil, lostfound.Faultf(lostfound.KindInvalidTransition, op, "case %s is %s", caseNumber, report.Status)
	}

	return s.store.TransitionLost(ctx, caseNumber,
		[]lostfound.LostStatus{report.Status}, lostfound.LostUnclaimed, recordstore.LostPatch{})
}

// MarkFoundAsUnclaimed records that nobody came for a found item.
func (s *service) MarkFoundAsUnclaimed(ctx context.Context, grant admingate.Grant, foundItemID string) (*lostfound.FoundItem, error) {
	const op = "lifecycle.mark_found_as_unclaimed"

	if err := admingate.Require(grant, op); err != nil {
		return nil, err
	}

	item, err := s.store.GetFoundItem(ctx, foundItemID)
	if err != nil {
		return nil, err
	}
	if !lostfound.FoundCanTransition(item.Status, lostfound.FoundUnclaimed) {
		return nil, lostfound.Faultf(lostfound.KindInvalidTransition, op, "item %s is %s", foundItemID, item.Status)
	}

	return s.store.TransitionFound(ctx, foundItemID,
		[]lostfound.FoundStatus{item.Status}, lostfound.FoundUnclaimed, recordstore.FoundPatch{})
}

func (s *service) ListLostReportsByReporter(ctx context.Context, reporterID string) ([]lostfound.LostReport, error) {
	return s.store.ListLostReportsByReporter(ctx, reporterID)
}

// ListFoundItemsByOffice lists the items held by the office of the given
// staff user, resolved through the directory.
func (s *service) ListFoundItemsByOffice(ctx context.Context, staffUserID string) ([]lostfound.FoundItem, error) {
	entry, err := s.directory.Lookup(ctx, staffUserID)
	if err != nil {
		return nil, fmt.Errorf("resolving office for user %s: %w", staffUserID, err)
	}
	if entry.OfficeID == "" {
		return nil, fmt.Errorf("user %s has no office", staffUserID)
	}
	return s.store.ListFoundItemsByOffice(ctx, entry.OfficeID)
}

// ListClaimableFoundItems returns the unmatched found items whose name lines
// up with one of the reporter's open reports. This is a display convenience,
// not an authorization boundary: the claim path re-checks state regardless.
func (s *service) ListClaimableFoundItems(ctx context.Context, reporterID string) ([]lostfound.FoundItem, error) {
	reports, err := s.store.ListLostReportsByReporter(ctx, reporterID)
	if err != nil {
		return nil, err
	}

	open := make(map[string]bool)
	for _, r := range reports {
		if r.Status == lostfound.LostReported || r.Status == lostfound.LostFound {
			open[strings.ToLower(r.ItemName)] = true
		}
	}
	if len(open) == 0 {
		return nil, nil
	}

	candidates, err := s.store.ListFoundItemsByStatus(ctx, lostfound.FoundLogged)
	if err != nil {
		return nil, err
	}

	var claimable []lostfound.FoundItem
	for _, item := range candidates {
		if open[strings.ToLower(item.ItemName)] {
			claimable = append(claimable, item)
		}
	}
	return claimable, nil
}

// internal/recordstore/store.go
package recordstore

import (
	"context"
	"time"

	"reclaim/internal/lostfound"
)

// LostPatch carries the optional fields a lost-report transition may touch
// alongside the status itself. Zero values leave the columns untouched.
// Pairing columns are only ever set inside Pair; ClearMatched nulls them on
// the way out of Matched, so a retired record never keeps a dangling pairing.
type LostPatch struct {
	ClearMatched bool
	ArchivedAt   *time.Time
}

// FoundPatch is the found-item counterpart of LostPatch.
type FoundPatch struct {
	ClearMatched bool
	Disposition  string
	ArchivedAt   *time.Time
}

// Store is durable keyed storage for the three record collections. Every
// state-changing method is a conditional write: the mutation applies only if
// the record's status at write time is one the caller assumed, otherwise the
// call fails with a Conflict fault instead of overwriting a concurrent
// transition. Cross-record methods (Pair, ClaimPair) are atomic: either both
// records reflect the new state or neither does.
type Store interface {
	// Lost reports, keyed by case number.
	CreateLostReport(ctx context.Context, report *lostfound.LostReport) error
	GetLostReport(ctx context.Context, caseNumber string) (*lostfound.LostReport, error)
	ListLostReportsByReporter(ctx context.Context, reporterID string) ([]lostfound.LostReport, error)

	// TransitionLost moves a report from one of the given statuses to the
	// target status, applying the patch in the same write. Fails NotFound if
	// the case is absent, Conflict if it exists but its status moved.
	TransitionLost(ctx context.Context, caseNumber string, from []lostfound.LostStatus, to lostfound.LostStatus, patch LostPatch) (*lostfound.LostReport, error)

	// DeleteLostReport hard-deletes a report, but only from one of the given
	// statuses and only while it has no matched found item. Fails NotFound if
	// absent, DependencyExists otherwise.
	DeleteLostReport(ctx context.Context, caseNumber string, from []lostfound.LostStatus) error

	// Found items, keyed by found-item id.
	CreateFoundItem(ctx context.Context, item *lostfound.FoundItem) error
	GetFoundItem(ctx context.Context, foundItemID string) (*lostfound.FoundItem, error)
	ListFoundItemsByOffice(ctx context.Context, officeID string) ([]lostfound.FoundItem, error)
	ListFoundItemsByStatus(ctx context.Context, status lostfound.FoundStatus) ([]lostfound.FoundItem, error)

	TransitionFound(ctx context.Context, foundItemID string, from []lostfound.FoundStatus, to lostfound.FoundStatus, patch FoundPatch) (*lostfound.FoundItem, error)

	// Pair atomically matches a found item (status Found) to a lost report
	// (status Reported or Found), cross-setting the pairing columns. The 1:1
	// relation is backed by unique indexes on the pairing columns, so a
	// racing second pairing fails AlreadyMatched even if both conditional
	// checks passed.
	Pair(ctx context.Context, foundItemID, caseNumber string) (*lostfound.FoundItem, *lostfound.LostReport, error)

	// ClaimPair atomically claims a found item and, when it is paired, the
	// matched lost report in the same transaction. The returned report is nil
	// when the item was unpaired.
	ClaimPair(ctx context.Context, foundItemID string) (*lostfound.FoundItem, *lostfound.LostReport, error)

	// Notifications, append-only.
	AppendNotification(ctx context.Context, n *lostfound.Notification) error
	ListNotifications(ctx context.Context, recipientUserID string) ([]lostfound.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string) error

	// Aggregation reads for the statistics service.
	CountLostByStatus(ctx context.Context) (map[lostfound.LostStatus]int, error)
	CountFoundByStatus(ctx context.Context) (map[lostfound.FoundStatus]int, error)

	Close() error
}

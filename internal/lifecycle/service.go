// internal/lifecycle/service.go
package lifecycle

import (
	"context"
	"time"

	"reclaim/internal/admingate"
	"reclaim/internal/clients"
	"reclaim/internal/lostfound"
)

// ReportDraft is the caller-supplied part of a new lost report. Case number,
// status and report date are assigned by the engine.
type ReportDraft struct {
	ReporterID       string    `json:"reporter_id"`
	ItemName         string    `json:"item_name"`
	ItemType         string    `json:"item_type"`
	ItemColor        string    `json:"item_color,omitempty"`
	Brand            string    `json:"brand,omitempty"`
	Description      string    `json:"description"`
	LastSeenDate     time.Time `json:"last_seen_date"`
	LastSeenLocation string    `json:"last_seen_location"`
}

// FoundDraft is the caller-supplied part of a newly logged found item.
type FoundDraft struct {
	ItemName          string    `json:"item_name"`
	ItemColor         string    `json:"item_color"`
	FoundDate         time.Time `json:"found_date"`
	FoundLocation     string    `json:"found_location"`
	Description       string    `json:"description"`
	CustodianOfficeID string    `json:"custodian_office_id"`
}

// Result is the outcome of a transition that may carry notification side
// effects. Warning is set when the transition committed but the notification
// could not be created.
type Result struct {
	LostReport *lostfound.LostReport   `json:"lost_report,omitempty"`
	FoundItem  *lostfound.FoundItem    `json:"found_item,omitempty"`
	Notified   *lostfound.Notification `json:"notified,omitempty"`
	Warning    string                  `json:"warning,omitempty"`
}

// Directory resolves user ids against the external identity & office
// directory. Only read views consume it.
type Directory interface {
	Lookup(ctx context.Context, userID string) (*clients.DirectoryEntry, error)
}

// Service owns the status state machines of both record types, enforces the
// legal transitions, computes archive eligibility and runs the dependency
// checks in front of destructive operations.
type Service interface {
	CreateLostReport(ctx context.Context, draft ReportDraft) (*lostfound.LostReport, error)
	LogFoundItem(ctx context.Context, draft FoundDraft) (*lostfound.FoundItem, error)

	GetLostReport(ctx context.Context, caseNumber string) (*lostfound.LostReport, error)
	GetFoundItem(ctx context.Context, foundItemID string) (*lostfound.FoundItem, error)

	MarkLostAsFound(ctx context.Context, caseNumber string) (*Result, error)
	MarkFoundAsClaimed(ctx context.Context, foundItemID string) (*Result, error)

	ArchiveLostReport(ctx context.Context, grant admingate.Grant, caseNumber string) (*lostfound.LostReport, error)
	ArchiveFoundItem(ctx context.Context, grant admingate.Grant, foundItemID, disposition string) (*lostfound.FoundItem, error)
	DeleteLostReport(ctx context.Context, grant admingate.Grant, caseNumber string) error
	MarkLostAsUnclaimed(ctx context.Context, grant admingate.Grant, caseNumber string) (*lostfound.LostReport, error)
	MarkFoundAsUnclaimed(ctx context.Context, grant admingate.Grant, foundItemID string) (*lostfound.FoundItem, error)

	ListLostReportsByReporter(ctx context.Context, reporterID string) ([]lostfound.LostReport, error)
	ListFoundItemsByOffice(ctx context.Context, staffUserID string) ([]lostfound.FoundItem, error)
	ListClaimableFoundItems(ctx context.Context, reporterID string) ([]lostfound.FoundItem, error)
}

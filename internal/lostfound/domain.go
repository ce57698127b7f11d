// internal/lostfound/domain.go
package lostfound

import (
	"time"
)

// LostStatus is the lifecycle state of a LostReport.
type LostStatus string

const (
	LostReported  LostStatus = "Reported"
	LostFound     LostStatus = "Found"
	LostMatched   LostStatus = "Matched"
	LostClaimed   LostStatus = "Claimed"
	LostUnclaimed LostStatus = "Unclaimed"
	LostArchived  LostStatus = "Archived"
)

// FoundStatus is the lifecycle state of a FoundItem.
type FoundStatus string

const (
	FoundLogged    FoundStatus = "Found"
	FoundMatched   FoundStatus = "Matched"
	FoundClaimed   FoundStatus = "Claimed"
	FoundUnclaimed FoundStatus = "Unclaimed"
	FoundArchived  FoundStatus = "Archived"
)

// NotificationType identifies what transition produced a notification.
type NotificationType string

const (
	NotifyMatchFound     NotificationType = "MatchFound"
	NotifyMarkedFound    NotificationType = "MarkedFound"
	NotifyContactMessage NotificationType = "ContactMessage"
)

// NotificationStatus is the read state of a notification.
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// LostReport is a record of an item a user reported missing.
// CaseNumber and DateReported are set at creation and never change.
type LostReport struct {
	CaseNumber         string     `json:"case_number"`
	ReporterID         string     `json:"reporter_id"`
	ItemName           string     `json:"item_name"`
	ItemType           string     `json:"item_type"`
	ItemColor          string     `json:"item_color,omitempty"`
	Brand              string     `json:"brand,omitempty"`
	Description        string     `json:"description"`
	LastSeenDate       time.Time  `json:"last_seen_date"`
	LastSeenLocation   string     `json:"last_seen_location"`
	Status             LostStatus `json:"status"`
	DateReported       time.Time  `json:"date_reported"`
	MatchedFoundItemID string     `json:"matched_found_item_id,omitempty"`
	ArchivedAt         *time.Time `json:"archived_at,omitempty"`
}

// FoundItem is a record of an item logged by a staff custodian.
type FoundItem struct {
	FoundItemID       string      `json:"found_item_id"`
	ItemName          string      `json:"item_name"`
	ItemColor         string      `json:"item_color"`
	FoundDate         time.Time   `json:"found_date"`
	FoundLocation     string      `json:"found_location"`
	Description       string      `json:"description"`
	CustodianOfficeID string      `json:"custodian_office_id"`
	Status            FoundStatus `json:"status"`
	MatchedCaseNumber string      `json:"matched_case_number,omitempty"`
	Disposition       string      `json:"disposition,omitempty"`
	ArchivedAt        *time.Time  `json:"archived_at,omitempty"`
}

// Notification is an append-only record tied to a lifecycle transition.
// Only its Status may change after creation, and only from unread to read.
type Notification struct {
	NotificationID  string             `json:"notification_id"`
	RecipientUserID string             `json:"recipient_user_id"`
	CaseNumber      string             `json:"case_number"`
	Type            NotificationType   `json:"type"`
	Message         string             `json:"message"`
	Date            time.Time          `json:"date"`
	Status          NotificationStatus `json:"status"`
}

// IdleRetentionDays is how many calendar days a lost report may sit
// unresolved before it becomes archivable regardless of status.
const IdleRetentionDays = 30

// IdleExpired reports whether the report's age exceeds the retention window
// at the given instant. The window is counted in whole UTC days, not
// elapsed hours: a report filed late on day 0 does not expire earlier than
// one filed that morning.
func (r *LostReport) IdleExpired(now time.Time) bool {
	reported := r.DateReported.UTC().Truncate(24 * time.Hour)
	today := now.UTC().Truncate(24 * time.Hour)
	return today.Sub(reported) > IdleRetentionDays*24*time.Hour
}

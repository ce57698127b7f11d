// internal/recordstore/sqlite/store_test.go
package sqlite

import (
	"context"
	"testing"
	"time"

	"reclaim/internal/lostfound"
	"reclaim/internal/recordstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(caseNumber, reporter string) *lostfound.LostReport {
	return &lostfound.LostReport{
		CaseNumber:   caseNumber,
		ReporterID:   reporter,
		ItemName:     "Blue Backpack",
		ItemType:     "bag",
		Status:       lostfound.LostReported,
		LastSeenDate: time.Now().UTC().Add(-24 * time.Hour),
		DateReported: time.Now().UTC(),
	}
}

func newItem(id, office string) *lostfound.FoundItem {
	return &lostfound.FoundItem{
		FoundItemID:       id,
		ItemName:          "Blue Backpack",
		ItemColor:         "blue",
		FoundDate:         time.Now().UTC(),
		FoundLocation:     "cafeteria",
		CustodianOfficeID: office,
		Status:            lostfound.FoundLogged,
	}
}

func TestGetLostReportNotFound(t *testing.T) {
	s := NewTestStore(t)
	_, err := s.GetLostReport(context.Background(), "missing")
	assert.Equal(t, lostfound.KindNotFound, lostfound.KindOf(err))
}

func TestTransitionLostConditional(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLostReport(ctx, newReport("c-1", "u-1")))

	updated, err := s.TransitionLost(ctx, "c-1",
		[]lostfound.LostStatus{lostfound.LostReported}, lostfound.LostFound, recordstore.LostPatch{})
	require.NoError(t, err)
	assert.Equal(t, lostfound.LostFound, updated.Status)

	// The report is no longer Reported, so the same update loses the race.
	_, err = s.TransitionLost(ctx, "c-1",
		[]lostfound.LostStatus{lostfound.LostReported}, lostfound.LostFound, recordstore.LostPatch{})
	assert.Equal(t, lostfound.KindConflict, lostfound.KindOf(err))

	_, err = s.TransitionLost(ctx, "nope",
		[]lostfound.LostStatus{lostfound.LostReported}, lostfound.LostFound, recordstore.LostPatch{})
	assert.Equal(t, lostfound.KindNotFound, lostfound.KindOf(err))
}

func TestTransitionLostPatch(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLostReport(ctx, newReport("c-1", "u-1")))

	archivedAt := time.Now().UTC().Truncate(time.Second)
	updated, err := s.TransitionLost(ctx, "c-1",
		[]lostfound.LostStatus{lostfound.LostReported}, lostfound.LostArchived,
		recordstore.LostPatch{ArchivedAt: &archivedAt})
	require.NoError(t, err)
	require.NotNil(t, updated.ArchivedAt)
	assert.True(t, updated.ArchivedAt.Equal(archivedAt))
}

func TestTransitionClearMatched(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLostReport(ctx, newReport("c-1", "u-1")))
	require.NoError(t, s.CreateFoundItem(ctx, newItem("f-1", "o-1")))
	_, _, err := s.Pair(ctx, "f-1", "c-1")
	require.NoError(t, err)

	// Claiming keeps the pairing.
	report, err := s.TransitionLost(ctx, "c-1",
		[]lostfound.LostStatus{lostfound.LostMatched}, lostfound.LostClaimed, recordstore.LostPatch{})
	require.NoError(t, err)
	assert.Equal(t, "f-1", report.MatchedFoundItemID)

	// Archiving drops it on both sides.
	require.NoError(t, s.CreateLostReport(ctx, newReport("c-2", "u-1")))
	require.NoError(t, s.CreateFoundItem(ctx, newItem("f-2", "o-1")))
	_, _, err = s.Pair(ctx, "f-2", "c-2")
	require.NoError(t, err)

	archivedAt := time.Now().UTC().Truncate(time.Second)
	report, err = s.TransitionLost(ctx, "c-2",
		[]lostfound.LostStatus{lostfound.LostMatched}, lostfound.LostArchived,
		recordstore.LostPatch{ClearMatched: true, ArchivedAt: &archivedAt})
	require.NoError(t, err)
	assert.Equal(t, lostfound.LostArchived, report.Status)
	assert.Empty(t, report.MatchedFoundItemID)

	item, err := s.TransitionFound(ctx, "f-2",
		[]lostfound.FoundStatus{lostfound.FoundMatched}, lostfound.FoundArchived,
		recordstore.FoundPatch{ClearMatched: true, ArchivedAt: &archivedAt})
	require.NoError(t, err)
	assert.Equal(t, lostfound.FoundArchived, item.Status)
	assert.Empty(t, item.MatchedCaseNumber)
}

func TestPairCrossSetsBothRecords(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLostReport(ctx, newReport("c-1", "u-1")))
	require.NoError(t, s.CreateFoundItem(ctx, newItem("f-1", "o-1")))

	item, report, err := s.Pair(ctx, "f-1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, lostfound.FoundMatched, item.Status)
	assert.Equal(t, "c-1", item.MatchedCaseNumber)
	assert.Equal(t, lostfound.LostMatched, report.Status)
	assert.Equal(t, "f-1", report.MatchedFoundItemID)
}

func TestPairRejectsSecondPairing(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLostReport(ctx, newReport("c-1", "u-1")))
	require.NoError(t, s.CreateLostReport(ctx, newReport("c-2", "u-2")))
	require.NoError(t, s.CreateFoundItem(ctx, newItem("f-1", "o-1")))
	require.NoError(t, s.CreateFoundItem(ctx, newItem("f-2", "o-1")))

	_, _, err := s.Pair(ctx, "f-1", "c-1")
	require.NoError(t, err)

	// Matched found item cannot pair again.
	_, _, err = s.Pair(ctx, "f-1", "c-2")
	assert.Equal(t, lostfound.KindAlreadyMatched, lostfound.KindOf(err))

	// Matched lost report cannot pair again either.
	_, _, err = s.Pair(ctx, "f-2", "c-1")
	assert.Equal(t, lostfound.KindAlreadyMatched, lostfound.KindOf(err))

	// Neither record of the failed attempts changed.
	item, err := s.GetFoundItem(ctx, "f-2")
	require.NoError(t, err)
	assert.Equal(t, lostfound.FoundLogged, item.Status)
	assert.Empty(t, item.MatchedCaseNumber)
}

func TestPairMissingRecords(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateFoundItem(ctx, newItem("f-1", "o-1")))

	_, _, err := s.Pair(ctx, "f-missing", "c-1")
	assert.Equal(t, lostfound.KindNotFound, lostfound.KindOf(err))

	// The found-item update succeeds but the lost side is absent; the
	// transaction must roll back the found side too.
	_, _, err = s.Pair(ctx, "f-1", "c-missing")
	assert.Equal(t, lostfound.KindNotFound, lostfound.KindOf(err))

	item, err := s.GetFoundItem(ctx, "f-1")
	require.NoError(t, err)
	assert.Equal(t, lostfound.FoundLogged, item.Status)
	assert.Empty(t, item.MatchedCaseNumber)
}

func TestClaimPairClaimsBothSides(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLostReport(ctx, newReport("c-1", "u-1")))
	require.NoError(t, s.CreateFoundItem(ctx, newItem("f-1", "o-1")))
	_, _, err := s.Pair(ctx, "f-1", "c-1")
	require.NoError(t, err)

	item, report, err := s.ClaimPair(ctx, "f-1")
	require.NoError(t, err)
	assert.Equal(t, lostfound.FoundClaimed, item.Status)
	require.NotNil(t, report)
	assert.Equal(t, lostfound.LostClaimed, report.Status)
}

func TestClaimPairUnpairedItem(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateFoundItem(ctx, newItem("f-1", "o-1")))

	item, report, err := s.ClaimPair(ctx, "f-1")
	require.NoError(t, err)
	assert.Equal(t, lostfound.FoundClaimed, item.Status)
	assert.Nil(t, report)

	// Claimed is terminal; claiming again is an invalid transition.
	_, _, err = s.ClaimPair(ctx, "f-1")
	assert.Equal(t, lostfound.KindInvalidTransition, lostfound.KindOf(err))
}

func TestDeleteLostReportPreconditions(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLostReport(ctx, newReport("c-1", "u-1")))
	require.NoError(t, s.CreateFoundItem(ctx, newItem("f-1", "o-1")))
	_, _, err := s.Pair(ctx, "f-1", "c-1")
	require.NoError(t, err)

	deletable := []lostfound.LostStatus{lostfound.LostReported, lostfound.LostUnclaimed}

	// Matched report refuses deletion at the SQL layer.
	err = s.DeleteLostReport(ctx, "c-1", deletable)
	assert.Equal(t, lostfound.KindDependencyExists, lostfound.KindOf(err))

	require.NoError(t, s.CreateLostReport(ctx, newReport("c-2", "u-1")))
	require.NoError(t, s.DeleteLostReport(ctx, "c-2", deletable))

	_, err = s.GetLostReport(ctx, "c-2")
	assert.Equal(t, lostfound.KindNotFound, lostfound.KindOf(err))

	err = s.DeleteLostReport(ctx, "c-2", deletable)
	assert.Equal(t, lostfound.KindNotFound, lostfound.KindOf(err))
}

func TestNotificationsNewestFirst(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"n-1", "n-2", "n-3"} {
		require.NoError(t, s.AppendNotification(ctx, &lostfound.Notification{
			NotificationID:  id,
			RecipientUserID: "u-1",
			CaseNumber:      "c-1",
			Type:            lostfound.NotifyMatchFound,
			Date:            base.Add(time.Duration(i) * time.Minute),
			Status:          lostfound.NotificationUnread,
		}))
	}

	list, err := s.ListNotifications(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "n-3", list[0].NotificationID)
	assert.Equal(t, "n-1", list[2].NotificationID)

	other, err := s.ListNotifications(ctx, "u-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMarkNotificationRead(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendNotification(ctx, &lostfound.Notification{
		NotificationID:  "n-1",
		RecipientUserID: "u-1",
		CaseNumber:      "c-1",
		Type:            lostfound.NotifyMarkedFound,
		Date:            time.Now().UTC(),
		Status:          lostfound.NotificationUnread,
	}))

	require.NoError(t, s.MarkNotificationRead(ctx, "n-1"))

	err := s.MarkNotificationRead(ctx, "n-1")
	assert.Equal(t, lostfound.KindInvalidTransition, lostfound.KindOf(err))

	err = s.MarkNotificationRead(ctx, "n-missing")
	assert.Equal(t, lostfound.KindNotFound, lostfound.KindOf(err))
}

func TestCountsByStatus(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLostReport(ctx, newReport("c-1", "u-1")))
	require.NoError(t, s.CreateLostReport(ctx, newReport("c-2", "u-1")))
	require.NoError(t, s.CreateFoundItem(ctx, newItem("f-1", "o-1")))
	_, _, err := s.Pair(ctx, "f-1", "c-1")
	require.NoError(t, err)

	lost, err := s.CountLostByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, lost[lostfound.LostReported])
	assert.Equal(t, 1, lost[lostfound.LostMatched])

	found, err := s.CountFoundByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, found[lostfound.FoundMatched])
}

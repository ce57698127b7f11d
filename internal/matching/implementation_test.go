// internal/matching/implementation_test.go
package matching

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"reclaim/internal/lostfound"
	"reclaim/internal/notification"
	"reclaim/internal/recordstore"
	"reclaim/internal/recordstore/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store recordstore.Store, caseNumber, foundItemID string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.CreateLostReport(ctx, &lostfound.LostReport{
		CaseNumber:   caseNumber,
		ReporterID:   "u-1",
		ItemName:     "Blue Backpack",
		ItemType:     "bag",
		Status:       lostfound.LostReported,
		LastSeenDate: time.Now().UTC(),
		DateReported: time.Now().UTC(),
	}))
	require.NoError(t, store.CreateFoundItem(ctx, &lostfound.FoundItem{
		FoundItemID:       foundItemID,
		ItemName:          "Blue Backpack",
		ItemColor:         "blue",
		FoundDate:         time.Now().UTC(),
		FoundLocation:     "gym",
		CustodianOfficeID: "o-1",
		Status:            lostfound.FoundLogged,
	}))
}

func TestMatchCrossSetsAndNotifies(t *testing.T) {
	store := sqlite.NewTestStore(t)
	svc := NewService(store, notification.NewService(store))
	ctx := context.Background()

	seed(t, store, "c-1", "f-1")

	result, err := svc.Match(ctx, "f-1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, lostfound.FoundMatched, result.FoundItem.Status)
	assert.Equal(t, "c-1", result.FoundItem.MatchedCaseNumber)
	assert.Equal(t, lostfound.LostMatched, result.LostReport.Status)
	assert.Equal(t, "f-1", result.LostReport.MatchedFoundItemID)
	assert.Empty(t, result.Warning)

	require.NotNil(t, result.Notified)
	assert.Equal(t, lostfound.NotifyMatchFound, result.Notified.Type)
	assert.Equal(t, "u-1", result.Notified.RecipientUserID)

	list, err := store.ListNotifications(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c-1", list[0].CaseNumber)
}

func TestMatchRejectsIneligibleStates(t *testing.T) {
	store := sqlite.NewTestStore(t)
	svc := NewService(store, notification.NewService(store))
	ctx := context.Background()

	seed(t, store, "c-1", "f-1")
	seed(t, store, "c-2", "f-2")

	_, err := svc.Match(ctx, "f-1", "c-1")
	require.NoError(t, err)

	_, err = svc.Match(ctx, "f-1", "c-2")
	assert.Equal(t, lostfound.KindAlreadyMatched, lostfound.KindOf(err))

	_, err = svc.Match(ctx, "f-2", "c-1")
	assert.Equal(t, lostfound.KindAlreadyMatched, lostfound.KindOf(err))

	_, err = svc.Match(ctx, "f-missing", "c-2")
	assert.Equal(t, lostfound.KindNotFound, lostfound.KindOf(err))
}

// Two racing matches for the same found item: exactly one wins.
func TestConcurrentMatchSingleWinner(t *testing.T) {
	store := sqlite.NewTestStore(t)
	svc := NewService(store, notification.NewService(store))
	ctx := context.Background()

	seed(t, store, "c-1", "f-1")
	seed(t, store, "c-2", "f-unused")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, caseNumber := range []string{"c-1", "c-2"} {
		wg.Add(1)
		go func(i int, caseNumber string) {
			defer wg.Done()
			_, errs[i] = svc.Match(ctx, "f-1", caseNumber)
		}(i, caseNumber)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		kind := lostfound.KindOf(err)
		if kind == lostfound.KindAlreadyMatched || kind == lostfound.KindConflict {
			lost++
		}
	}
	assert.Equal(t, 1, won, "exactly one match must win")
	assert.Equal(t, 1, lost, "the loser must see AlreadyMatched or Conflict")
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, string, string, lostfound.NotificationType, string) (*lostfound.Notification, error) {
	return nil, fmt.Errorf("notification stream unavailable")
}

func (failingNotifier) List(context.Context, string) ([]lostfound.Notification, error) {
	return nil, nil
}

func (failingNotifier) MarkRead(context.Context, string) error {
	return nil
}

// A notification failure after the pairing committed surfaces as a warning
// on the success response, not as an error or a rollback.
func TestMatchNotificationFailureIsWarning(t *testing.T) {
	store := sqlite.NewTestStore(t)
	svc := NewService(store, failingNotifier{})
	ctx := context.Background()

	seed(t, store, "c-1", "f-1")

	result, err := svc.Match(ctx, "f-1", "c-1")
	require.NoError(t, err)
	assert.Nil(t, result.Notified)
	assert.Contains(t, result.Warning, "notification not created")

	report, err := store.GetLostReport(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, lostfound.LostMatched, report.Status)
}

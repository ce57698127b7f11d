// internal/stats/implementation_test.go
package stats

import (
	"context"
	"testing"
	"time"

	"reclaim/internal/lostfound"
	"reclaim/internal/recordstore"
	"reclaim/internal/recordstore/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addReport(t *testing.T, store recordstore.Store, caseNumber string, status lostfound.LostStatus) {
	t.Helper()
	require.NoError(t, store.CreateLostReport(context.Background(), &lostfound.LostReport{
		CaseNumber:   caseNumber,
		ReporterID:   "u-1",
		ItemName:     "Item",
		ItemType:     "misc",
		Status:       status,
		LastSeenDate: time.Now().UTC(),
		DateReported: time.Now().UTC(),
	}))
}

func addItem(t *testing.T, store recordstore.Store, id string, status lostfound.FoundStatus) {
	t.Helper()
	require.NoError(t, store.CreateFoundItem(context.Background(), &lostfound.FoundItem{
		FoundItemID:       id,
		ItemName:          "Item",
		FoundDate:         time.Now().UTC(),
		CustodianOfficeID: "o-1",
		Status:            status,
	}))
}

func TestSnapshotEmptyStoreHasZeroRates(t *testing.T) {
	store := sqlite.NewTestStore(t)
	snap, err := NewService(store).Snapshot(context.Background())
	require.NoError(t, err)

	assert.Zero(t, snap.TotalLost)
	assert.Zero(t, snap.TotalFound)
	assert.Zero(t, snap.FoundRate)
	assert.Zero(t, snap.ClaimRate)
}

func TestSnapshotCountsAndRates(t *testing.T) {
	store := sqlite.NewTestStore(t)

	addReport(t, store, "c-1", lostfound.LostReported)
	addReport(t, store, "c-2", lostfound.LostMatched)
	addReport(t, store, "c-3", lostfound.LostClaimed)
	addReport(t, store, "c-4", lostfound.LostArchived)
	addItem(t, store, "f-1", lostfound.FoundLogged)
	addItem(t, store, "f-2", lostfound.FoundMatched)

	snap, err := NewService(store).Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, snap.TotalLost)
	assert.Equal(t, 2, snap.TotalFound)
	assert.Equal(t, 1, snap.TotalClaimed)
	assert.Equal(t, 2, snap.TotalMatched)
	assert.Equal(t, 1, snap.TotalArchived)
	assert.InDelta(t, 0.5, snap.FoundRate, 1e-9)
	assert.InDelta(t, 0.5, snap.ClaimRate, 1e-9)
}

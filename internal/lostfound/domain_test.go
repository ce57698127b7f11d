// internal/lostfound/domain_test.go
package lostfound

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdleExpiredCountsCalendarDays(t *testing.T) {
	reported := time.Date(2026, 8, 1, 17, 30, 0, 0, time.UTC)
	r := &LostReport{DateReported: reported}

	assert.False(t, r.IdleExpired(reported))
	assert.False(t, r.IdleExpired(reported.AddDate(0, 0, 29)))

	// Day 30 is still inside the window even when more than 30*24 hours
	// have elapsed since the report came in that evening.
	sameDay30 := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	assert.False(t, r.IdleExpired(sameDay30))

	assert.True(t, r.IdleExpired(time.Date(2026, 9, 1, 0, 0, 1, 0, time.UTC)))
	assert.True(t, r.IdleExpired(reported.AddDate(0, 0, 45)))
}

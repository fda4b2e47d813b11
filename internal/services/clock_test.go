package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilityWindow(t *testing.T) {
	scheduled := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("nominal window follows the scheduled time", func(t *testing.T) {
		w := testClock.AvailabilityWindow(scheduled, nil)
		assert.Equal(t, scheduled, w.Start)
		assert.Equal(t, scheduled.Add(15*time.Minute), w.End)
	})

	t.Run("prior recording pushes the window past the break", func(t *testing.T) {
		recEnd := scheduled.Add(10 * time.Minute)
		w := testClock.AvailabilityWindow(scheduled, &recEnd)
		assert.Equal(t, recEnd.Add(5*time.Minute), w.Start)
		assert.Equal(t, recEnd.Add(20*time.Minute), w.End)
	})

	t.Run("earlier recording end leaves the scheduled window alone", func(t *testing.T) {
		recEnd := scheduled.Add(-2 * time.Hour)
		w := testClock.AvailabilityWindow(scheduled, &recEnd)
		assert.Equal(t, scheduled, w.Start)
	})
}

func TestCanStartNow(t *testing.T) {
	scheduled := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	w := testClock.AvailabilityWindow(scheduled, nil)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one minute early", scheduled.Add(-time.Minute), false},
		{"exactly on time", scheduled, true},
		{"two minutes late", scheduled.Add(2 * time.Minute), true},
		{"last moment before close", w.End.Add(-time.Second), true},
		{"exactly at close", w.End, false},
		{"well past close", w.End.Add(10 * time.Minute), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, testClock.CanStartNow(tc.now, w))
		})
	}
}

func TestAutoEndDeadline(t *testing.T) {
	startedAt := time.Date(2025, 3, 10, 10, 2, 0, 0, time.UTC)
	assert.Equal(t, startedAt.Add(15*time.Minute), testClock.AutoEndDeadline(startedAt))
}

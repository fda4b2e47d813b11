package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"telemed-app-server/internal/models"
)

func TestDeriveSessionState(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)
	started := now.Add(-10 * time.Minute)
	deadline := now.Add(5 * time.Minute)
	passedDeadline := now.Add(-2 * time.Minute)
	ended := now.Add(-time.Minute)

	t.Run("not started", func(t *testing.T) {
		state := DeriveSessionState(&models.Appointment{}, now)
		assert.Equal(t, PhaseNotStarted, state.Phase)
	})

	t.Run("active with deadline", func(t *testing.T) {
		state := DeriveSessionState(&models.Appointment{
			MeetingStartedAt: &started,
			MeetingEndsAt:    &deadline,
		}, now)
		assert.Equal(t, PhaseActive, state.Phase)
		assert.Equal(t, &deadline, state.Deadline)
	})

	t.Run("extended session carries no deadline", func(t *testing.T) {
		state := DeriveSessionState(&models.Appointment{
			MeetingStartedAt:       &started,
			MeetingAutoEndDisabled: true,
		}, now)
		assert.Equal(t, PhaseActive, state.Phase)
		assert.Nil(t, state.Deadline)
	})

	t.Run("explicitly ended", func(t *testing.T) {
		state := DeriveSessionState(&models.Appointment{
			MeetingStartedAt: &started,
			MeetingEndedAt:   &ended,
		}, now)
		assert.Equal(t, PhaseEnded, state.Phase)
		assert.Equal(t, &ended, state.EndedAt)
	})

	t.Run("past deadline reads as ended before the write-back", func(t *testing.T) {
		state := DeriveSessionState(&models.Appointment{
			MeetingStartedAt: &started,
			MeetingEndsAt:    &passedDeadline,
		}, now)
		assert.Equal(t, PhaseEnded, state.Phase)
		assert.Equal(t, &passedDeadline, state.EndedAt)
	})

	t.Run("past deadline stays active once extended", func(t *testing.T) {
		state := DeriveSessionState(&models.Appointment{
			MeetingStartedAt:       &started,
			MeetingEndsAt:          &passedDeadline,
			MeetingAutoEndDisabled: true,
		}, now)
		assert.Equal(t, PhaseActive, state.Phase)
	})
}

package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telemed-app-server/internal/models"
)

func TestGiveConsentBeforeSessionStart(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsentService(db)
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now().Add(time.Hour))

	rec, err := svc.Give(appointment.ID, appointment.PatientID, true, "198.51.100.4")
	require.NoError(t, err)

	assert.Empty(t, rec.VideoURL)
	assert.True(t, rec.ConsentGiven)
	require.NotNil(t, rec.ConsentDate)
	assert.Equal(t, "198.51.100.4", rec.ConsentIP)
	assert.EqualValues(t, 1, countRecordings(t, db, appointment.ID))

	status, err := svc.Status(appointment.ID, appointment.PatientID)
	require.NoError(t, err)
	assert.True(t, status.Decided)
	assert.True(t, status.ConsentGiven)
	assert.Equal(t, rec.ID, status.RecordingID)
}

func TestWithdrawConsentClearsConsentDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsentService(db)
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	given, err := svc.Give(appointment.ID, appointment.PatientID, true, "198.51.100.4")
	require.NoError(t, err)
	require.NotNil(t, given.ConsentDate)

	withdrawn, err := svc.Give(appointment.ID, appointment.PatientID, false, "198.51.100.9")
	require.NoError(t, err)

	// The decision updates the same canonical row rather than creating another.
	assert.Equal(t, given.ID, withdrawn.ID)
	assert.False(t, withdrawn.ConsentGiven)
	assert.Nil(t, withdrawn.ConsentDate)
	assert.Equal(t, "198.51.100.9", withdrawn.ConsentIP)
	assert.EqualValues(t, 1, countRecordings(t, db, appointment.ID))
}

func TestConsentGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsentService(db)
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	_, err := svc.Give(appointment.ID, appointment.DoctorID, true, "198.51.100.4")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Give(uuid.New().String(), appointment.PatientID, true, "198.51.100.4")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsentStatusWithoutDecision(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsentService(db)
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	status, err := svc.Status(appointment.ID, appointment.PatientID)
	require.NoError(t, err)
	assert.False(t, status.Decided)
	assert.Empty(t, status.RecordingID)
}

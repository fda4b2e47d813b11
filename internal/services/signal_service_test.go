package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telemed-app-server/internal/models"
)

func TestSignalSendAndPollOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewSignalService(db)
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	m1, err := svc.Send(appointment.ID, appointment.DoctorID, models.SignalTypeOffer, json.RawMessage(`{"sdp":"v=0 first"}`))
	require.NoError(t, err)
	m2, err := svc.Send(appointment.ID, appointment.DoctorID, models.SignalTypeICE, json.RawMessage(`{"candidate":"host 1"}`))
	require.NoError(t, err)

	// The patient sees the doctor's messages in creation order.
	messages, err := svc.Poll(appointment.ID, appointment.PatientID, time.Time{})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, m1.ID, messages[0].ID)
	assert.Equal(t, m2.ID, messages[1].ID)
	assert.True(t, !messages[1].CreatedAt.Before(messages[0].CreatedAt))
}

func TestSignalPollNeverReturnsOwnMessages(t *testing.T) {
	db := newTestDB(t)
	svc := NewSignalService(db)
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	_, err := svc.Send(appointment.ID, appointment.DoctorID, models.SignalTypeOffer, json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = svc.Send(appointment.ID, appointment.PatientID, models.SignalTypeAnswer, json.RawMessage(`{}`))
	require.NoError(t, err)

	doctorView, err := svc.Poll(appointment.ID, appointment.DoctorID, time.Time{})
	require.NoError(t, err)
	require.Len(t, doctorView, 1)
	assert.Equal(t, appointment.PatientID, doctorView[0].SenderID)

	patientView, err := svc.Poll(appointment.ID, appointment.PatientID, time.Time{})
	require.NoError(t, err)
	require.Len(t, patientView, 1)
	assert.Equal(t, appointment.DoctorID, patientView[0].SenderID)
}

func TestSignalPollCursor(t *testing.T) {
	db := newTestDB(t)
	svc := NewSignalService(db)
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	first, err := svc.Send(appointment.ID, appointment.DoctorID, models.SignalTypeChat, json.RawMessage(`{"text":"hello"}`))
	require.NoError(t, err)
	second, err := svc.Send(appointment.ID, appointment.DoctorID, models.SignalTypeChat, json.RawMessage(`{"text":"still there?"}`))
	require.NoError(t, err)

	// Cursor past the first message yields only the second.
	messages, err := svc.Poll(appointment.ID, appointment.PatientID, first.CreatedAt)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, second.ID, messages[0].ID)

	// Cursor at the latest message yields nothing.
	messages, err = svc.Poll(appointment.ID, appointment.PatientID, second.CreatedAt)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestSignalPayloadStoredVerbatim(t *testing.T) {
	db := newTestDB(t)
	svc := NewSignalService(db)
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	payload := `{"prescriptionId":"abc-123","note":"take twice daily"}`
	_, err := svc.Send(appointment.ID, appointment.DoctorID, models.SignalTypePrescription, json.RawMessage(payload))
	require.NoError(t, err)

	messages, err := svc.Poll(appointment.ID, appointment.PatientID, time.Time{})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.JSONEq(t, payload, string(messages[0].Payload))
	assert.Equal(t, models.SignalTypePrescription, messages[0].Type)
}

func TestSignalGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewSignalService(db)
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())
	stranger := uuid.New().String()

	_, err := svc.Send(appointment.ID, stranger, models.SignalTypeChat, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Poll(appointment.ID, stranger, time.Time{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Send(uuid.New().String(), appointment.DoctorID, models.SignalTypeChat, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Send(appointment.ID, appointment.DoctorID, "telepathy", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrValidation)
}

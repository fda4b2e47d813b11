package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telemed-app-server/internal/models"
)

func TestUploadRequiresExistingRecording(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordingService(db, NewDiskFileStore(t.TempDir()))
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	// An upload cannot precede both consent and session start.
	_, err := svc.UploadRecordingFile(appointment.ID, Identity{ID: appointment.DoctorID, Role: models.RoleDoctor},
		"call.webm", strings.NewReader("bytes"), 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadAttachesFileToCanonicalRecording(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordingService(db, NewDiskFileStore(t.TempDir()))
	consent := NewConsentService(db)
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	consentRec, err := consent.Give(appointment.ID, appointment.PatientID, true, "203.0.113.1")
	require.NoError(t, err)

	rec, err := svc.UploadRecordingFile(appointment.ID, Identity{ID: appointment.DoctorID, Role: models.RoleDoctor},
		"call.webm", strings.NewReader("recorded bytes"), 640)
	require.NoError(t, err)

	assert.Equal(t, consentRec.ID, rec.ID)
	require.NotNil(t, rec.RecordingFileURL)
	assert.Contains(t, *rec.RecordingFileURL, "call.webm")
	require.NotNil(t, rec.Duration)
	assert.Equal(t, 640, *rec.Duration)
	assert.EqualValues(t, 1, countRecordings(t, db, appointment.ID))
}

func TestUploadDoesNotOverwriteFinalizedDuration(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordingService(db, NewDiskFileStore(t.TempDir()))
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	finalized := 300
	recording := models.VideoRecording{
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		PatientID:     appointment.PatientID,
		RecordingDate: time.Now(),
		Duration:      &finalized,
	}
	require.NoError(t, db.Create(&recording).Error)

	rec, err := svc.UploadRecordingFile(appointment.ID, Identity{ID: appointment.DoctorID, Role: models.RoleDoctor},
		"call.webm", strings.NewReader("bytes"), 999)
	require.NoError(t, err)
	require.NotNil(t, rec.Duration)
	assert.Equal(t, 300, *rec.Duration)
}

func TestUploadAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordingService(db, NewDiskFileStore(t.TempDir()))
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	recording := models.VideoRecording{
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		PatientID:     appointment.PatientID,
		RecordingDate: time.Now(),
	}
	require.NoError(t, db.Create(&recording).Error)

	// The patient cannot upload; an admin with hospital scope can.
	_, err := svc.UploadRecordingFile(appointment.ID, Identity{ID: appointment.PatientID, Role: models.RolePatient},
		"call.webm", strings.NewReader("bytes"), 0)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.UploadRecordingFile(appointment.ID, Identity{ID: uuid.New().String(), Role: models.RoleAdmin},
		"call.webm", strings.NewReader("bytes"), 0)
	assert.NoError(t, err)
}

func TestGetRecording(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordingService(db, NewDiskFileStore(t.TempDir()))
	appointment := newAppointment(t, db, models.StatusConfirmed, time.Now())

	_, err := svc.GetRecording(appointment.ID, Identity{ID: appointment.PatientID, Role: models.RolePatient})
	assert.ErrorIs(t, err, ErrNotFound)

	recording := models.VideoRecording{
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		PatientID:     appointment.PatientID,
		RecordingDate: time.Now(),
	}
	require.NoError(t, db.Create(&recording).Error)

	rec, err := svc.GetRecording(appointment.ID, Identity{ID: appointment.PatientID, Role: models.RolePatient})
	require.NoError(t, err)
	assert.Equal(t, recording.ID, rec.ID)

	_, err = svc.GetRecording(appointment.ID, Identity{ID: uuid.New().String(), Role: models.RolePatient})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

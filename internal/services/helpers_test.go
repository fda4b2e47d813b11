package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"telemed-app-server/internal/models"
)

var testClock = SessionClock{
	ConsultationLength: 15 * time.Minute,
	InterSessionBreak:  5 * time.Minute,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func newAppointment(t *testing.T, db *gorm.DB, status models.AppointmentStatus, date time.Time) models.Appointment {
	t.Helper()
	appointment := models.Appointment{
		PatientID:       uuid.New().String(),
		DoctorID:        uuid.New().String(),
		AppointmentDate: date,
		Status:          status,
		Reason:          "checkup",
	}
	require.NoError(t, db.Create(&appointment).Error)
	return appointment
}

func countRecordings(t *testing.T, db *gorm.DB, appointmentID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.VideoRecording{}).
		Where("appointment_id = ?", appointmentID).Count(&n).Error)
	return n
}

package jobs

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"telemed-app-server/internal/models"
)

type recordingNotifier struct {
	reminded []string
}

func (n *recordingNotifier) RemindAppointment(appointment models.Appointment) error {
	n.reminded = append(n.reminded, appointment.ID)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func TestRemindTodaysAppointments(t *testing.T) {
	db := newTestDB(t)

	upcoming := models.Appointment{
		PatientID:       uuid.New().String(),
		DoctorID:        uuid.New().String(),
		AppointmentDate: time.Now().Add(time.Minute),
		Status:          models.StatusConfirmed,
	}
	require.NoError(t, db.Create(&upcoming).Error)

	past := models.Appointment{
		PatientID:       uuid.New().String(),
		DoctorID:        uuid.New().String(),
		AppointmentDate: time.Now().Add(-time.Hour),
		Status:          models.StatusConfirmed,
	}
	require.NoError(t, db.Create(&past).Error)

	pending := models.Appointment{
		PatientID:       uuid.New().String(),
		DoctorID:        uuid.New().String(),
		AppointmentDate: time.Now().Add(time.Minute),
		Status:          models.StatusPending,
	}
	require.NoError(t, db.Create(&pending).Error)

	notifier := &recordingNotifier{}
	require.NoError(t, RemindTodaysAppointments(db, notifier))

	assert.Equal(t, []string{upcoming.ID}, notifier.reminded)
}

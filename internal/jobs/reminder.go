package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"telemed-app-server/internal/models"
)

// Notifier delivers appointment reminders. Actual delivery (email/SMS) lives
// outside this service; LogNotifier is the default stand-in.
type Notifier interface {
	RemindAppointment(appointment models.Appointment) error
}

// LogNotifier writes reminders to the structured log.
type LogNotifier struct{}

// RemindAppointment logs the reminder instead of delivering it.
func (LogNotifier) RemindAppointment(appointment models.Appointment) error {
	log.WithFields(log.Fields{
		"appointmentId":   appointment.ID,
		"doctorId":        appointment.DoctorID,
		"patientId":       appointment.PatientID,
		"appointmentDate": appointment.AppointmentDate,
	}).Info("appointment reminder")
	return nil
}

// StartReminderScheduler runs a daily scan of today's confirmed appointments
// and hands each to the notifier. It never touches session state: auto-end
// stays lazy and is observed on reads, not enforced here.
func StartReminderScheduler(db *gorm.DB, notifier Notifier, cronSpec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		if err := RemindTodaysAppointments(db, notifier); err != nil {
			log.WithError(err).Error("appointment reminder run failed")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// RemindTodaysAppointments notifies both parties of every confirmed
// appointment scheduled for the rest of today.
func RemindTodaysAppointments(db *gorm.DB, notifier Notifier) error {
	now := time.Now()
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

	var appointments []models.Appointment
	err := db.Where("status = ? AND appointment_date >= ? AND appointment_date < ?",
		models.StatusConfirmed, now, dayEnd).
		Order("appointment_date asc").
		Find(&appointments).Error
	if err != nil {
		return err
	}

	for _, appointment := range appointments {
		if err := notifier.RemindAppointment(appointment); err != nil {
			log.WithError(err).WithField("appointmentId", appointment.ID).Warn("reminder delivery failed")
		}
	}
	return nil
}

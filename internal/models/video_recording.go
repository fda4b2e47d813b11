package models

import (
	"time"
)

// VideoRecording tracks one consultation recording for an appointment. The row
// most recently created (by RecordingDate) is the canonical one: consent capture,
// session start, session end and file upload all select it the same way, so
// independent writers converge on a single row instead of fragmenting state.
type VideoRecording struct {
	BaseModel
	AppointmentID    string     `gorm:"size:36;index" json:"appointmentId"`
	DoctorID         string     `gorm:"size:36;index" json:"doctorId"`
	PatientID        string     `gorm:"size:36;index" json:"patientId"`
	VideoURL         string     `gorm:"size:512" json:"videoUrl"`
	RecordingFileURL *string    `gorm:"size:512" json:"recordingFileUrl,omitempty"`
	Duration         *int       `json:"duration,omitempty"` // seconds
	RecordingDate    time.Time  `gorm:"index" json:"recordingDate"`
	ConsentGiven     bool       `gorm:"default:false" json:"consentGiven"`
	ConsentDate      *time.Time `json:"consentDate,omitempty"`
	ConsentIP        string     `gorm:"size:45" json:"consentIp,omitempty"`
}

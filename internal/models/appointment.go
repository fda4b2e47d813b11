package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a scheduled consultation between a doctor and a patient.
// The meeting* fields belong to the live-session subsystem: MeetingEndsAt only
// carries meaning while MeetingAutoEndDisabled is false; once the doctor extends
// the session the deadline is cleared and the session ends only explicitly.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index" json:"patientId"`
	DoctorID        string            `gorm:"size:36;index" json:"doctorId"`
	AppointmentDate time.Time         `json:"appointmentDate"`
	Status          AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	Reason          string            `gorm:"size:255" json:"reason"`
	Notes           string            `gorm:"type:text" json:"notes"`

	MeetingLink            string     `gorm:"size:512" json:"meetingLink,omitempty"`
	MeetingStartedAt       *time.Time `json:"meetingStartedAt,omitempty"`
	MeetingEndsAt          *time.Time `json:"meetingEndsAt,omitempty"`
	MeetingAutoEndDisabled bool       `gorm:"default:false" json:"meetingAutoEndDisabled"`
	MeetingEndedAt         *time.Time `json:"meetingEndedAt,omitempty"`

	// Relations
	Patient        User             `gorm:"foreignKey:PatientID" json:"-"`
	Doctor         User             `gorm:"foreignKey:DoctorID" json:"-"`
	SignalMessages []SignalMessage  `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"-"`
	Recordings     []VideoRecording `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsParticipant reports whether userID is the doctor or the patient on this appointment.
func (a *Appointment) IsParticipant(userID string) bool {
	return userID == a.DoctorID || userID == a.PatientID
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignalType classifies a relayed in-call message. The relay itself never
// interprets the payload; the type tells the receiving client how to.
type SignalType string

const (
	SignalTypeOffer        SignalType = "offer"
	SignalTypeAnswer       SignalType = "answer"
	SignalTypeICE          SignalType = "ice"
	SignalTypeChat         SignalType = "chat"
	SignalTypePrescription SignalType = "prescription"
	SignalTypeDocument     SignalType = "document"
)

// ValidSignalType reports whether t is one of the known signal types.
func ValidSignalType(t SignalType) bool {
	switch t {
	case SignalTypeOffer, SignalTypeAnswer, SignalTypeICE,
		SignalTypeChat, SignalTypePrescription, SignalTypeDocument:
		return true
	}
	return false
}

// SignalMessage is one relayed message on an appointment's signaling channel.
// Rows are append-only: created once by the sender, never mutated, and read by
// the other participant polling with a created_at cursor. CreatedAt is stored
// at microsecond precision because it doubles as the poll cursor.
type SignalMessage struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AppointmentID string          `gorm:"size:36;index:idx_signal_appt_created,priority:1" json:"appointmentId"`
	SenderID      string          `gorm:"size:36;index" json:"senderId"`
	Type          SignalType      `gorm:"size:20" json:"type"`
	Payload       json.RawMessage `gorm:"type:json" json:"payload"`
	CreatedAt     time.Time       `gorm:"type:datetime(6);index:idx_signal_appt_created,priority:2" json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key.
func (m *SignalMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type MeetingStatus string

const (
	MeetingPending   MeetingStatus = "PENDING"
	MeetingConfirmed MeetingStatus = "CONFIRMED"
	MeetingRejected  MeetingStatus = "REJECTED"
	MeetingCancelled MeetingStatus = "CANCELLED"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingPending, MeetingConfirmed, MeetingRejected, MeetingCancelled:
		return true
	}
	return false
}

// Active statuses hold the slot.
func (s MeetingStatus) Active() bool {
	return s == MeetingPending || s == MeetingConfirmed
}

// ActiveMeetingStatuses is handy for "status IN ?" queries.
var ActiveMeetingStatuses = []MeetingStatus{MeetingPending, MeetingConfirmed}

type Meeting struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	CompanyID      uint          `json:"companyId" gorm:"not null;index"`
	Company        *User         `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	BuyerID        uint          `json:"buyerId" gorm:"not null;index"`
	Buyer          *User         `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	TimeSlotID     uint          `json:"timeSlotId" gorm:"not null;index"`
	TimeSlot       *TimeSlot     `json:"timeSlot,omitempty" gorm:"foreignKey:TimeSlotID"`
	Status         MeetingStatus `json:"status" gorm:"type:varchar(16);not null;default:PENDING;index"`
	Message        string        `json:"message,omitempty" gorm:"size:1000"`
	ReminderSentAt *time.Time    `json:"-"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.Status == "" {
		m.Status = MeetingPending
	}
	return nil
}

// CanTransitionTo checks the meeting state machine. PENDING is the only
// state with outgoing transitions; everything else is terminal.
func (m *Meeting) CanTransitionTo(next MeetingStatus) error {
	switch m.Status {
	case MeetingPending:
		if next != MeetingConfirmed && next != MeetingRejected && next != MeetingCancelled {
			return fmt.Errorf("invalid transition from %s to %s", m.Status, next)
		}
		return nil
	default:
		return fmt.Errorf("no transitions allowed from %s", m.Status)
	}
}

// IsParticipant reports whether the user is on either side of the meeting.
func (m *Meeting) IsParticipant(userID uint) bool {
	return m.CompanyID == userID || m.BuyerID == userID
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type SlotStatus string

const (
	SlotOpen     SlotStatus = "OPEN"
	SlotDisabled SlotStatus = "DISABLED"
	SlotHeld     SlotStatus = "HELD"   // a pending meeting exists
	SlotBooked   SlotStatus = "BOOKED" // a confirmed meeting exists
)

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotOpen, SlotDisabled, SlotHeld, SlotBooked:
		return true
	}
	return false
}

type TimeSlot struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"userId" gorm:"not null;index"`
	User      *User      `json:"company,omitempty" gorm:"foreignKey:UserID"`
	StartTime time.Time  `json:"startTime" gorm:"not null;index"`
	EndTime   time.Time  `json:"endTime" gorm:"not null"`
	Status    SlotStatus `json:"status" gorm:"type:varchar(16);not null;default:OPEN;index"`
	IsBooked  bool       `json:"isBooked" gorm:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (s *TimeSlot) BeforeCreate(tx *gorm.DB) error {
	if s.Status == "" {
		s.Status = SlotOpen
	}
	return nil
}

// AfterFind keeps the legacy isBooked flag in responses: anything but OPEN is unavailable.
func (s *TimeSlot) AfterFind(tx *gorm.DB) (err error) {
	s.IsBooked = s.Status != SlotOpen
	return
}

func (s *TimeSlot) AfterSave(tx *gorm.DB) (err error) {
	s.IsBooked = s.Status != SlotOpen
	return
}

// Overlaps reports whether [start, end) intersects the slot.
func (s *TimeSlot) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && start.Before(s.EndTime)
}

// SlotStatusFor maps a meeting status onto the state its slot must be in.
func SlotStatusFor(status MeetingStatus) SlotStatus {
	switch status {
	case MeetingPending:
		return SlotHeld
	case MeetingConfirmed:
		return SlotBooked
	default:
		return SlotOpen
	}
}

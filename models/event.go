package models

import (
	"time"
)

type EventStatus string

const (
	EventUpcoming EventStatus = "UPCOMING"
	EventActive   EventStatus = "ACTIVE"
	EventEnded    EventStatus = "ENDED"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventUpcoming, EventActive, EventEnded:
		return true
	}
	return false
}

// Event is the trade-event configuration slots are generated against.
// Only one event is expected to be ACTIVE at a time.
type Event struct {
	ID                 uint        `json:"id" gorm:"primaryKey"`
	Name               string      `json:"name" gorm:"not null"`
	StartDate          time.Time   `json:"startDate" gorm:"not null"`
	EndDate            time.Time   `json:"endDate" gorm:"not null"`
	Venue              string      `json:"venue,omitempty"`
	HeaderImage        string      `json:"headerImage,omitempty"`
	HeaderText         string      `json:"headerText,omitempty"`
	MeetingDuration    int         `json:"meetingDuration" gorm:"not null;default:30"` // minutes
	OperationStartTime string      `json:"operationStartTime" gorm:"type:varchar(5);not null"` // "HH:MM"
	OperationEndTime   string      `json:"operationEndTime" gorm:"type:varchar(5);not null"`
	LunchStartTime     string      `json:"lunchStartTime" gorm:"type:varchar(5)"`
	LunchEndTime       string      `json:"lunchEndTime" gorm:"type:varchar(5)"`
	Status             EventStatus `json:"status" gorm:"type:varchar(16);not null;default:UPCOMING;index"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

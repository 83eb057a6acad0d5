package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationMeetingRequest   NotificationType = "MEETING_REQUEST"
	NotificationMeetingApproved  NotificationType = "MEETING_APPROVED"
	NotificationMeetingRejected  NotificationType = "MEETING_REJECTED"
	NotificationMeetingCancelled NotificationType = "MEETING_CANCELLED"
	NotificationMeetingReminder  NotificationType = "MEETING_REMINDER"
)

type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"userId" gorm:"not null;index"`
	Type      NotificationType `json:"type" gorm:"type:varchar(32);not null;index"`
	Title     string           `json:"title" gorm:"size:200;not null"`
	Message   string           `json:"message" gorm:"size:1000"`
	RelatedID *uint            `json:"relatedId,omitempty"`
	Data      datatypes.JSON   `json:"data,omitempty"`
	IsRead    bool             `json:"isRead" gorm:"not null;default:false"`
	CreatedAt time.Time        `json:"createdAt"`
}

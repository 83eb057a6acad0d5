package services

import (
	"context"
	"fmt"
	"time"

	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/utils"
)

const (
	reminderLeadMin = 55 * time.Minute
	reminderLeadMax = 65 * time.Minute
)

// SendReminders notifies both sides of every confirmed meeting starting in
// roughly one hour. Each meeting is reminded at most once.
func (s *BookingService) SendReminders(ctx context.Context, now time.Time) (int, error) {
	from := now.UTC().Add(reminderLeadMin)
	to := now.UTC().Add(reminderLeadMax)

	var meetings []models.Meeting
	err := s.db.WithContext(ctx).
		Preload("Company").Preload("Buyer").Preload("TimeSlot").
		Joins("JOIN time_slots ON time_slots.id = meetings.time_slot_id").
		Where("meetings.status = ? AND meetings.reminder_sent_at IS NULL", models.MeetingConfirmed).
		Where("time_slots.start_time BETWEEN ? AND ?", from, to).
		Find(&meetings).Error
	if err != nil {
		return 0, utils.FromDB(err, "Meeting")
	}

	sent := 0
	for i := range meetings {
		m := &meetings[i]

		// claim the meeting first so overlapping runs never double-send
		res := s.db.WithContext(ctx).Model(&models.Meeting{}).
			Where("id = ? AND reminder_sent_at IS NULL", m.ID).
			Update("reminder_sent_at", now.UTC())
		if res.Error != nil {
			return sent, utils.FromDB(res.Error, "Meeting")
		}
		if res.RowsAffected == 0 {
			continue
		}

		when := s.when(m.TimeSlot)
		data := meetingData(m)
		s.notifier.NotifyQuietly(ctx, NotificationInput{
			UserID:    m.BuyerID,
			Type:      models.NotificationMeetingReminder,
			Title:     "Upcoming meeting",
			Message:   fmt.Sprintf("Your meeting with %s starts at %s.", m.Company.Name, when),
			RelatedID: &m.ID,
			Data:      data,
		})
		s.notifier.NotifyQuietly(ctx, NotificationInput{
			UserID:    m.CompanyID,
			Type:      models.NotificationMeetingReminder,
			Title:     "Upcoming meeting",
			Message:   fmt.Sprintf("Your meeting with %s starts at %s.", m.Buyer.Name, when),
			RelatedID: &m.ID,
			Data:      data,
		})
		sent++
	}
	return sent, nil
}

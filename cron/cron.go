package cron

import (
	"context"
	"time"

	"github.com/meinhoongagan/bizmatch/logger"
	"github.com/robfig/cron/v3"
)

// ReminderSender notifies participants of meetings starting soon.
type ReminderSender interface {
	SendReminders(ctx context.Context, now time.Time) (int, error)
}

// EventCloser ends events whose last day has passed.
type EventCloser interface {
	EndExpired(ctx context.Context, now time.Time, loc *time.Location) (int64, error)
}

type Jobs struct {
	Reminders ReminderSender
	Events    EventCloser
	Location  *time.Location
	Log       *logger.Logger
	Now       func() time.Time
}

// StartCronJobs schedules meeting reminders every minute and the event
// auto-end check every hour. Stop the returned scheduler on shutdown.
func StartCronJobs(jobs *Jobs) (*cron.Cron, error) {
	if jobs.Now == nil {
		jobs.Now = time.Now
	}

	c := cron.New()
	if _, err := c.AddFunc("* * * * *", jobs.SendMeetingReminders); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc("@hourly", jobs.EndExpiredEvents); err != nil {
		return nil, err
	}
	c.Start()
	jobs.Log.Info("Cron job scheduler started", "jobs", len(c.Entries()))
	return c, nil
}

func (j *Jobs) SendMeetingReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()

	sent, err := j.Reminders.SendReminders(ctx, j.Now())
	if err != nil {
		j.Log.Error("Error sending meeting reminders", "error", err)
		return
	}
	if sent > 0 {
		j.Log.Info("Sent meeting reminders", "count", sent)
	}
}

func (j *Jobs) EndExpiredEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ended, err := j.Events.EndExpired(ctx, j.Now(), j.Location)
	if err != nil {
		j.Log.Error("Error ending expired events", "error", err)
		return
	}
	if ended > 0 {
		j.Log.Info("Ended expired events", "count", ended)
	}
}

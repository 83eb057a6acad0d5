package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/utils"
	"gorm.io/gorm"
)

// UpdateEventInput is a partial update; nil fields keep their value.
type UpdateEventInput struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=200"`
	StartDate          *string `json:"startDate"`
	EndDate            *string `json:"endDate"`
	Venue              *string `json:"venue" validate:"omitempty,max=300"`
	HeaderText         *string `json:"headerText" validate:"omitempty,max=1000"`
	MeetingDuration    *int    `json:"meetingDuration" validate:"omitempty,min=15,max=120"`
	OperationStartTime *string `json:"operationStartTime" validate:"omitempty,hhmm"`
	OperationEndTime   *string `json:"operationEndTime" validate:"omitempty,hhmm"`
	LunchStartTime     *string `json:"lunchStartTime" validate:"omitempty,hhmm"`
	LunchEndTime       *string `json:"lunchEndTime" validate:"omitempty,hhmm"`
	Status             *string `json:"status" validate:"omitempty,oneof=UPCOMING ACTIVE ENDED"`
}

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Active returns the ACTIVE event, or NotFound when there is none.
func (s *EventService) Active(ctx context.Context) (*models.Event, error) {
	return activeEvent(s.db.WithContext(ctx))
}

func activeEvent(tx *gorm.DB) (*models.Event, error) {
	var event models.Event
	if err := tx.Where("status = ?", models.EventActive).Order("id DESC").First(&event).Error; err != nil {
		return nil, utils.FromDB(err, "Event")
	}
	return &event, nil
}

// Current is the event the admin edits: the active one, else the most recent.
func (s *EventService) Current(ctx context.Context) (*models.Event, error) {
	return currentEvent(s.db.WithContext(ctx))
}

func currentEvent(tx *gorm.DB) (*models.Event, error) {
	event, err := activeEvent(tx)
	if err == nil || !utils.IsKind(err, utils.CodeNotFound) {
		return event, err
	}
	var latest models.Event
	if err := tx.Order("id DESC").First(&latest).Error; err != nil {
		return nil, utils.FromDB(err, "Event")
	}
	return &latest, nil
}

// Update patches the current event, creating one when none exists. Making
// an event ACTIVE ends every other active event in the same transaction.
func (s *EventService) Update(ctx context.Context, in UpdateEventInput) (*models.Event, error) {
	if err := utils.Validate(&in); err != nil {
		return nil, err
	}

	var result *models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := currentEvent(tx)
		creating := false
		if err != nil {
			if !utils.IsKind(err, utils.CodeNotFound) {
				return err
			}
			creating = true
			event = &models.Event{
				MeetingDuration:    30,
				OperationStartTime: "09:00",
				OperationEndTime:   "17:00",
				Status:             models.EventUpcoming,
			}
		}

		if err := applyEventInput(event, in); err != nil {
			return err
		}
		if creating && (event.Name == "" || event.StartDate.IsZero() || event.EndDate.IsZero()) {
			return utils.Validation("name, startDate and endDate are required to create the event")
		}
		if err := checkSchedule(event); err != nil {
			return err
		}

		if event.Status == models.EventActive {
			q := tx.Model(&models.Event{}).Where("status = ?", models.EventActive)
			if !creating {
				q = q.Where("id <> ?", event.ID)
			}
			if err := q.Update("status", models.EventEnded).Error; err != nil {
				return err
			}
		}

		if err := tx.Save(event).Error; err != nil {
			return err
		}
		result = event
		return nil
	})
	if err != nil {
		return nil, utils.FromDB(err, "Event")
	}
	return result, nil
}

func applyEventInput(event *models.Event, in UpdateEventInput) error {
	if in.Name != nil {
		event.Name = strings.TrimSpace(*in.Name)
	}
	if in.StartDate != nil {
		d, err := utils.ParseDate(*in.StartDate)
		if err != nil {
			return utils.Validation("startDate must be a date (YYYY-MM-DD)")
		}
		event.StartDate = d
	}
	if in.EndDate != nil {
		d, err := utils.ParseDate(*in.EndDate)
		if err != nil {
			return utils.Validation("endDate must be a date (YYYY-MM-DD)")
		}
		event.EndDate = d
	}
	if in.Venue != nil {
		event.Venue = *in.Venue
	}
	if in.HeaderText != nil {
		event.HeaderText = *in.HeaderText
	}
	if in.MeetingDuration != nil {
		event.MeetingDuration = *in.MeetingDuration
	}
	if in.OperationStartTime != nil {
		event.OperationStartTime = *in.OperationStartTime
	}
	if in.OperationEndTime != nil {
		event.OperationEndTime = *in.OperationEndTime
	}
	if in.LunchStartTime != nil {
		event.LunchStartTime = *in.LunchStartTime
	}
	if in.LunchEndTime != nil {
		event.LunchEndTime = *in.LunchEndTime
	}
	if in.Status != nil {
		event.Status = models.EventStatus(*in.Status)
	}
	return nil
}

func checkSchedule(event *models.Event) error {
	if (event.LunchStartTime == "") != (event.LunchEndTime == "") {
		return utils.Validation("lunchStartTime and lunchEndTime must be set together")
	}
	if _, err := utils.GenerateSlots(scheduleOf(event)); err != nil {
		return utils.Validation(err.Error())
	}
	return nil
}

func scheduleOf(event *models.Event) utils.ScheduleParams {
	return utils.ScheduleParams{
		StartDate:       event.StartDate,
		EndDate:         event.EndDate,
		OperationStart:  event.OperationStartTime,
		OperationEnd:    event.OperationEndTime,
		LunchStart:      event.LunchStartTime,
		LunchEnd:        event.LunchEndTime,
		MeetingDuration: event.MeetingDuration,
	}
}

// PreviewSlots lists the candidate slots of the active event.
func (s *EventService) PreviewSlots(ctx context.Context) ([]utils.CandidateSlot, error) {
	event, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := utils.GenerateSlots(scheduleOf(event))
	if err != nil {
		return nil, utils.Validation(err.Error())
	}
	return slots, nil
}

// SetHeaderImage stores url on the current event and returns the previous one.
func (s *EventService) SetHeaderImage(ctx context.Context, url string) (string, error) {
	event, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	previous := event.HeaderImage
	if err := s.db.WithContext(ctx).Model(event).Update("header_image", url).Error; err != nil {
		return "", utils.FromDB(err, "Event")
	}
	return previous, nil
}

// EndExpired moves ACTIVE events whose last day is before now to ENDED.
func (s *EventService) EndExpired(ctx context.Context, now time.Time, loc *time.Location) (int64, error) {
	local := utils.InZone(now, loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	res := s.db.WithContext(ctx).Model(&models.Event{}).
		Where("status = ? AND end_date < ?", models.EventActive, today).
		Update("status", models.EventEnded)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return 0, utils.FromDB(res.Error, "Event")
	}
	return res.RowsAffected, nil
}

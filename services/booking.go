package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/utils"
	"gorm.io/gorm"
)

type RequestMeetingInput struct {
	TimeSlotID uint   `json:"timeSlotId" validate:"required"`
	Message    string `json:"message" validate:"max=1000"`
}

type ResolveMeetingInput struct {
	Status string `json:"status" validate:"required"`
}

// BookingService owns the meeting lifecycle and keeps slot status in step
// with it.
type BookingService struct {
	db       *gorm.DB
	notifier *NotificationService
	loc      *time.Location
}

func NewBookingService(db *gorm.DB, notifier *NotificationService, loc *time.Location) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{db: db, notifier: notifier, loc: loc}
}

func (s *BookingService) when(slot *models.TimeSlot) string {
	if slot == nil {
		return "the scheduled time"
	}
	return utils.InZone(slot.StartTime, s.loc).Format("Mon 02 Jan 2006 15:04 MST")
}

func meetingData(m *models.Meeting) map[string]any {
	data := map[string]any{
		"meetingId":  m.ID,
		"timeSlotId": m.TimeSlotID,
		"companyId":  m.CompanyID,
		"buyerId":    m.BuyerID,
		"status":     m.Status,
	}
	if m.TimeSlot != nil {
		data["startTime"] = m.TimeSlot.StartTime
		data["endTime"] = m.TimeSlot.EndTime
	}
	return data
}

func (s *BookingService) load(ctx context.Context, id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.db.WithContext(ctx).
		Preload("Company").Preload("Buyer").Preload("TimeSlot").
		First(&meeting, id).Error
	if err != nil {
		return nil, utils.FromDB(err, "Meeting")
	}
	return &meeting, nil
}

// holdSlot moves an OPEN slot to HELD. No affected row means a concurrent
// request got there first.
func holdSlot(tx *gorm.DB, slotID uint) error {
	res := tx.Model(&models.TimeSlot{}).
		Where("id = ? AND status = ?", slotID, models.SlotOpen).
		Update("status", models.SlotHeld)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.Conflict("Time slot is not available")
	}
	return nil
}

// RequestMeeting books an open slot for the buyer. The slot moves OPEN->HELD
// through a conditional update so concurrent requests cannot both succeed.
func (s *BookingService) RequestMeeting(ctx context.Context, buyer *models.User, in RequestMeetingInput) (*models.Meeting, error) {
	if buyer == nil || buyer.Role != models.RoleBuyer {
		return nil, utils.Unauthorized("")
	}
	if err := utils.Validate(&in); err != nil {
		return nil, err
	}

	var meetingID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.TimeSlot
		if err := tx.First(&slot, in.TimeSlotID).Error; err != nil {
			return utils.FromDB(err, "Time slot")
		}
		if slot.Status != models.SlotOpen {
			return utils.Conflict("Time slot is not available")
		}

		var active int64
		if err := tx.Model(&models.Meeting{}).
			Where("time_slot_id = ? AND status IN ?", slot.ID, models.ActiveMeetingStatuses).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return utils.Conflict("Time slot is not available")
		}

		var clashes int64
		if err := tx.Model(&models.Meeting{}).
			Joins("JOIN time_slots ON time_slots.id = meetings.time_slot_id").
			Where("meetings.buyer_id = ? AND meetings.status IN ?", buyer.ID, models.ActiveMeetingStatuses).
			Where("time_slots.start_time < ? AND time_slots.end_time > ?", slot.EndTime, slot.StartTime).
			Count(&clashes).Error; err != nil {
			return err
		}
		if clashes > 0 {
			return utils.Conflict("You already have a meeting at this time")
		}

		if err := holdSlot(tx, slot.ID); err != nil {
			return err
		}

		meeting := models.Meeting{
			CompanyID:  slot.UserID,
			BuyerID:    buyer.ID,
			TimeSlotID: slot.ID,
			Status:     models.MeetingPending,
			Message:    strings.TrimSpace(in.Message),
		}
		if err := tx.Create(&meeting).Error; err != nil {
			return err
		}
		meetingID = meeting.ID
		return nil
	})
	if err != nil {
		return nil, utils.FromDB(err, "Meeting")
	}

	meeting, err := s.load(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyQuietly(ctx, NotificationInput{
		UserID:    meeting.CompanyID,
		Type:      models.NotificationMeetingRequest,
		Title:     "New meeting request",
		Message:   fmt.Sprintf("%s requested a meeting on %s.", meeting.Buyer.Name, s.when(meeting.TimeSlot)),
		RelatedID: &meeting.ID,
		Data:      meetingData(meeting),
	})
	return meeting, nil
}

// ResolveMeeting confirms or rejects a pending meeting on behalf of the
// owning company or an admin.
func (s *BookingService) ResolveMeeting(ctx context.Context, actor *models.User, id uint, in ResolveMeetingInput) (*models.Meeting, error) {
	if actor == nil {
		return nil, utils.Unauthorized("")
	}
	decision := models.MeetingStatus(in.Status)
	if decision != models.MeetingConfirmed && decision != models.MeetingRejected {
		return nil, utils.Validation("status must be one of [CONFIRMED REJECTED]")
	}

	meeting, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !(actor.Role == models.RoleAdmin || (actor.Role == models.RoleCompany && meeting.CompanyID == actor.ID)) {
		return nil, utils.Unauthorized("")
	}

	if err := s.transition(ctx, meeting, decision); err != nil {
		return nil, err
	}

	meeting, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	note := NotificationInput{
		UserID:    meeting.BuyerID,
		RelatedID: &meeting.ID,
		Data:      meetingData(meeting),
	}
	if decision == models.MeetingConfirmed {
		note.Type = models.NotificationMeetingApproved
		note.Title = "Meeting confirmed"
		note.Message = fmt.Sprintf("%s confirmed your meeting on %s.", meeting.Company.Name, s.when(meeting.TimeSlot))
	} else {
		note.Type = models.NotificationMeetingRejected
		note.Title = "Meeting declined"
		note.Message = fmt.Sprintf("%s declined your meeting request for %s.", meeting.Company.Name, s.when(meeting.TimeSlot))
	}
	s.notifier.NotifyQuietly(ctx, note)
	return meeting, nil
}

// CancelMeeting withdraws a pending request. Only the requesting buyer or an
// admin may cancel; the slot is reopened.
func (s *BookingService) CancelMeeting(ctx context.Context, actor *models.User, id uint) (*models.Meeting, error) {
	if actor == nil {
		return nil, utils.Unauthorized("")
	}
	meeting, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !(actor.Role == models.RoleAdmin || (actor.Role == models.RoleBuyer && meeting.BuyerID == actor.ID)) {
		return nil, utils.Unauthorized("")
	}

	if err := s.transition(ctx, meeting, models.MeetingCancelled); err != nil {
		return nil, err
	}

	meeting, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyQuietly(ctx, NotificationInput{
		UserID:    meeting.CompanyID,
		Type:      models.NotificationMeetingCancelled,
		Title:     "Meeting request withdrawn",
		Message:   fmt.Sprintf("%s withdrew the meeting request for %s.", meeting.Buyer.Name, s.when(meeting.TimeSlot)),
		RelatedID: &meeting.ID,
		Data:      meetingData(meeting),
	})
	return meeting, nil
}

// transition moves a PENDING meeting to next and puts its slot in the
// matching state, all in one transaction.
func (s *BookingService) transition(ctx context.Context, meeting *models.Meeting, next models.MeetingStatus) error {
	if err := meeting.CanTransitionTo(next); err != nil {
		return utils.Conflict(fmt.Sprintf("Meeting is already %s", strings.ToLower(string(meeting.Status))))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Meeting{}).
			Where("id = ? AND status = ?", meeting.ID, models.MeetingPending).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("Meeting is no longer pending")
		}
		return tx.Model(&models.TimeSlot{}).
			Where("id = ?", meeting.TimeSlotID).
			Update("status", models.SlotStatusFor(next)).Error
	})
	return utils.FromDB(err, "Meeting")
}

// List returns the meetings visible to the actor: companies see requests
// for their slots, buyers see their own requests, admins see everything.
func (s *BookingService) List(ctx context.Context, actor *models.User, status string) ([]models.Meeting, error) {
	q := s.db.WithContext(ctx).
		Preload("Company").Preload("Buyer").Preload("TimeSlot").
		Order("meetings.created_at DESC").Order("meetings.id DESC")

	switch actor.Role {
	case models.RoleCompany:
		q = q.Where("company_id = ?", actor.ID)
	case models.RoleBuyer:
		q = q.Where("buyer_id = ?", actor.ID)
	case models.RoleAdmin:
	default:
		return nil, utils.Unauthorized("")
	}

	if status != "" {
		if !models.MeetingStatus(status).Valid() {
			return nil, utils.Validation("status must be one of [PENDING CONFIRMED REJECTED CANCELLED]")
		}
		q = q.Where("status = ?", status)
	}

	meetings := []models.Meeting{}
	if err := q.Find(&meetings).Error; err != nil {
		return nil, utils.FromDB(err, "Meeting")
	}
	return meetings, nil
}

// Get returns one meeting to a participant or an admin.
func (s *BookingService) Get(ctx context.Context, actor *models.User, id uint) (*models.Meeting, error) {
	meeting, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && !meeting.IsParticipant(actor.ID) {
		// hide existence from outsiders
		return nil, utils.NotFound("Meeting")
	}
	return meeting, nil
}

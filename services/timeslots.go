package services

import (
	"context"
	"time"

	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/utils"
	"gorm.io/gorm"
)

type CreateSlotInput struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type SlotFilter struct {
	CompanyID uint
	Status    models.SlotStatus
}

// GenerateResult reports the outcome of a default-schedule generation.
type GenerateResult struct {
	Created []models.TimeSlot `json:"created"`
	Skipped int               `json:"skipped"`
}

type TimeSlotService struct {
	db  *gorm.DB
	loc *time.Location
}

func NewTimeSlotService(db *gorm.DB, loc *time.Location) *TimeSlotService {
	if loc == nil {
		loc = time.UTC
	}
	return &TimeSlotService{db: db, loc: loc}
}

func normalizeSlotTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

func overlapping(tx *gorm.DB, companyID uint, start, end time.Time) *gorm.DB {
	return tx.Model(&models.TimeSlot{}).
		Where("user_id = ? AND start_time < ? AND end_time > ?", companyID, end, start)
}

// Create adds a slot for the company. Slots of one company never overlap.
func (s *TimeSlotService) Create(ctx context.Context, companyID uint, in CreateSlotInput) (*models.TimeSlot, error) {
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return nil, utils.Validation("startTime and endTime are required")
	}
	slot := &models.TimeSlot{
		UserID:    companyID,
		StartTime: normalizeSlotTime(in.StartTime),
		EndTime:   normalizeSlotTime(in.EndTime),
		Status:    models.SlotOpen,
	}
	if !slot.EndTime.After(slot.StartTime) {
		return nil, utils.Validation("endTime must be after startTime")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clashes int64
		if err := overlapping(tx, companyID, slot.StartTime, slot.EndTime).Count(&clashes).Error; err != nil {
			return err
		}
		if clashes > 0 {
			return utils.Conflict("Time slot overlaps an existing slot")
		}
		return tx.Create(slot).Error
	})
	if err != nil {
		return nil, utils.FromDB(err, "Time slot")
	}
	return slot, nil
}

func (s *TimeSlotService) List(ctx context.Context, filter SlotFilter) ([]models.TimeSlot, error) {
	q := s.db.WithContext(ctx).Preload("User").Order("start_time")
	if filter.CompanyID != 0 {
		q = q.Where("user_id = ?", filter.CompanyID)
	}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, utils.Validation("status must be one of [OPEN DISABLED HELD BOOKED]")
		}
		q = q.Where("status = ?", filter.Status)
	}
	slots := []models.TimeSlot{}
	if err := q.Find(&slots).Error; err != nil {
		return nil, utils.FromDB(err, "Time slot")
	}
	return slots, nil
}

func ownedSlot(tx *gorm.DB, companyID, id uint) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	if err := tx.Where("id = ? AND user_id = ?", id, companyID).First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// Delete removes an owned slot together with its finished meetings. A slot
// with a pending or confirmed meeting cannot be deleted.
func (s *TimeSlotService) Delete(ctx context.Context, companyID, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slot, err := ownedSlot(tx, companyID, id)
		if err != nil {
			return err
		}
		var active int64
		if err := tx.Model(&models.Meeting{}).
			Where("time_slot_id = ? AND status IN ?", slot.ID, models.ActiveMeetingStatuses).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return utils.Conflict("Time slot has an active meeting")
		}
		if err := tx.Where("time_slot_id = ?", slot.ID).Delete(&models.Meeting{}).Error; err != nil {
			return err
		}
		return tx.Delete(slot).Error
	})
	return utils.FromDB(err, "Time slot")
}

// SetStatus reopens or disables an owned slot. HELD and BOOKED slots are
// controlled by their meeting and cannot be changed here.
func (s *TimeSlotService) SetStatus(ctx context.Context, companyID, id uint, status models.SlotStatus) (*models.TimeSlot, error) {
	if status == "" {
		status = models.SlotOpen
	}
	if status != models.SlotOpen && status != models.SlotDisabled {
		return nil, utils.Validation("status must be one of [OPEN DISABLED]")
	}

	var result *models.TimeSlot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slot, err := ownedSlot(tx, companyID, id)
		if err != nil {
			return err
		}
		if slot.Status == models.SlotHeld || slot.Status == models.SlotBooked {
			return utils.Conflict("Time slot has an active meeting")
		}
		res := tx.Model(&models.TimeSlot{}).
			Where("id = ? AND status IN ?", slot.ID, []models.SlotStatus{models.SlotOpen, models.SlotDisabled}).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("Time slot has an active meeting")
		}
		result, err = ownedSlot(tx, companyID, id)
		return err
	})
	if err != nil {
		return nil, utils.FromDB(err, "Time slot")
	}
	return result, nil
}

// Generate creates the company's default schedule from the active event,
// skipping candidates that collide with slots the company already has.
func (s *TimeSlotService) Generate(ctx context.Context, companyID uint) (*GenerateResult, error) {
	result := &GenerateResult{Created: []models.TimeSlot{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := activeEvent(tx)
		if err != nil {
			return err
		}
		candidates, err := utils.GenerateSlots(scheduleOf(event))
		if err != nil {
			return utils.Validation(err.Error())
		}

		var existing []models.TimeSlot
		if err := tx.Where("user_id = ?", companyID).Find(&existing).Error; err != nil {
			return err
		}

		for _, c := range candidates {
			start, end, err := c.Bounds(s.loc)
			if err != nil {
				return utils.Internal("Failed to resolve slot time", err)
			}
			slot := models.TimeSlot{
				UserID:    companyID,
				StartTime: normalizeSlotTime(start),
				EndTime:   normalizeSlotTime(end),
				Status:    models.SlotOpen,
			}
			if collides(existing, slot) {
				result.Skipped++
				continue
			}
			existing = append(existing, slot)
			result.Created = append(result.Created, slot)
		}

		if len(result.Created) == 0 {
			return nil
		}
		return tx.Create(&result.Created).Error
	})
	if err != nil {
		return nil, utils.FromDB(err, "Event")
	}
	return result, nil
}

func collides(existing []models.TimeSlot, slot models.TimeSlot) bool {
	for i := range existing {
		if existing[i].Overlaps(slot.StartTime, slot.EndTime) {
			return true
		}
	}
	return false
}

package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/config"
	"github.com/meinhoongagan/bizmatch/logger"
	"github.com/meinhoongagan/bizmatch/services"
	"github.com/meinhoongagan/bizmatch/sessions"
	"github.com/meinhoongagan/bizmatch/storage"
	"github.com/meinhoongagan/bizmatch/utils"
	"gorm.io/gorm"
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	DB            *gorm.DB
	Config        *config.Config
	Log           *logger.Logger
	Sessions      sessions.Store
	Storage       storage.Store
	Users         *services.UserService
	Events        *services.EventService
	Slots         *services.TimeSlotService
	Booking       *services.BookingService
	Notifications *services.NotificationService
	Now           func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, utils.Validation("Invalid id")
	}
	return uint(id), nil
}

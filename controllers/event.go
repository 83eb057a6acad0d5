package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/services"
	"github.com/meinhoongagan/bizmatch/utils"
)

// GetEvent godoc
// @Summary Get the active event
// @Tags event
// @Produce json
// @Success 200 {object} models.Event
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/event [get]
func (h *Handler) GetEvent(c *fiber.Ctx) error {
	event, err := h.Events.Active(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(event)
}

// UpdateEvent godoc
// @Summary Update the event configuration, creating it if needed
// @Tags event
// @Accept json
// @Produce json
// @Param event body services.UpdateEventInput true "Fields to change"
// @Success 200 {object} models.Event
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/event [patch]
func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	var input services.UpdateEventInput
	if err := utils.BindJSON(c, &input); err != nil {
		return err
	}
	event, err := h.Events.Update(c.UserContext(), input)
	if err != nil {
		return err
	}
	h.Log.Info("Event updated", "event_id", event.ID, "status", event.Status)
	return c.JSON(event)
}

// GetEventSlots previews the slot grid of the active event.
func (h *Handler) GetEventSlots(c *fiber.Ctx) error {
	slots, err := h.Events.PreviewSlots(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(slots)
}

package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/middleware"
	"github.com/meinhoongagan/bizmatch/services"
	"github.com/meinhoongagan/bizmatch/utils"
)

// RequestMeeting godoc
// @Summary Request a meeting on an open time slot
// @Tags meetings
// @Accept json
// @Produce json
// @Param meeting body services.RequestMeetingInput true "Request"
// @Success 200 {object} models.Meeting
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/meetings [post]
func (h *Handler) RequestMeeting(c *fiber.Ctx) error {
	var input services.RequestMeetingInput
	if err := utils.BindJSON(c, &input); err != nil {
		return err
	}
	meeting, err := h.Booking.RequestMeeting(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return err
	}
	return c.JSON(meeting)
}

// ResolveMeeting godoc
// @Summary Confirm or reject a pending meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Param id path int true "Meeting ID"
// @Param decision body services.ResolveMeetingInput true "CONFIRMED or REJECTED"
// @Success 200 {object} models.Meeting
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/meetings/{id} [patch]
func (h *Handler) ResolveMeeting(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var input services.ResolveMeetingInput
	if err := utils.BindJSON(c, &input); err != nil {
		return err
	}
	meeting, err := h.Booking.ResolveMeeting(c.UserContext(), middleware.CurrentUser(c), id, input)
	if err != nil {
		return err
	}
	return c.JSON(meeting)
}

func (h *Handler) CancelMeeting(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	meeting, err := h.Booking.CancelMeeting(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(meeting)
}

// GetMeetings lists the caller's meetings, optionally filtered by ?status=.
func (h *Handler) GetMeetings(c *fiber.Ctx) error {
	meetings, err := h.Booking.List(c.UserContext(), middleware.CurrentUser(c), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(meetings)
}

func (h *Handler) GetMeeting(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	meeting, err := h.Booking.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(meeting)
}

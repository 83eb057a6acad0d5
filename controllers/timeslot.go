package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/middleware"
	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/services"
	"github.com/meinhoongagan/bizmatch/utils"
)

type UpdateTimeSlotInput struct {
	Status string `json:"status" validate:"omitempty,oneof=OPEN DISABLED"`
}

// CreateTimeSlot godoc
// @Summary Add a time slot for the signed-in company
// @Tags timeslots
// @Accept json
// @Produce json
// @Param slot body services.CreateSlotInput true "Slot"
// @Success 201 {object} models.TimeSlot
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/timeslots [post]
func (h *Handler) CreateTimeSlot(c *fiber.Ctx) error {
	var input services.CreateSlotInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Validation("Invalid request body")
	}
	slot, err := h.Slots.Create(c.UserContext(), middleware.CurrentUser(c).ID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

func (h *Handler) DeleteTimeSlot(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Slots.Delete(c.UserContext(), middleware.CurrentUser(c).ID, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Time slot deleted successfully"})
}

// UpdateTimeSlot reopens a slot, or disables it with {"status":"DISABLED"}.
func (h *Handler) UpdateTimeSlot(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var input UpdateTimeSlotInput
	if len(c.Body()) > 0 {
		if err := utils.BindJSON(c, &input); err != nil {
			return err
		}
	}
	slot, err := h.Slots.SetStatus(c.UserContext(), middleware.CurrentUser(c).ID, id, models.SlotStatus(input.Status))
	if err != nil {
		return err
	}
	return c.JSON(slot)
}

// GetTimeSlots lists slots, filtered by ?companyId= and ?status=.
func (h *Handler) GetTimeSlots(c *fiber.Ctx) error {
	filter := services.SlotFilter{Status: models.SlotStatus(c.Query("status"))}
	if raw := c.Query("companyId"); raw != "" {
		id := c.QueryInt("companyId")
		if id <= 0 {
			return utils.Validation("Invalid companyId")
		}
		filter.CompanyID = uint(id)
	}
	slots, err := h.Slots.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(slots)
}

// GenerateTimeSlots creates the default schedule from the active event.
func (h *Handler) GenerateTimeSlots(c *fiber.Ctx) error {
	result, err := h.Slots.Generate(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *Handler) GetCompanies(c *fiber.Ctx) error {
	companies, err := h.Users.Companies(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(companies)
}

func (h *Handler) GetCompany(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	company, err := h.Users.Company(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(company)
}

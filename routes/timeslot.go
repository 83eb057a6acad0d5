package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/controllers"
	"github.com/meinhoongagan/bizmatch/middleware"
	"github.com/meinhoongagan/bizmatch/models"
)

// SetupTimeSlotRoutes configures slot management for companies
func SetupTimeSlotRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	slots := api.Group("/timeslots", protected)
	companyOnly := middleware.RequireRoles(models.RoleCompany)

	slots.Get("/", h.GetTimeSlots)
	slots.Post("/", companyOnly, h.CreateTimeSlot)
	slots.Post("/generate", companyOnly, h.GenerateTimeSlots)
	slots.Put("/:id", companyOnly, h.UpdateTimeSlot)
	slots.Delete("/:id", companyOnly, h.DeleteTimeSlot)
}

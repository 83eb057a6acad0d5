package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/controllers"
	"github.com/meinhoongagan/bizmatch/middleware"
	"github.com/meinhoongagan/bizmatch/models"
)

// SetupMeetingRoutes configures meeting requests and their resolution
func SetupMeetingRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	meetings := api.Group("/meetings", protected)

	meetings.Get("/", h.GetMeetings)
	meetings.Get("/:id", h.GetMeeting)
	meetings.Post("/", middleware.RequireRoles(models.RoleBuyer), h.RequestMeeting)
	meetings.Patch("/:id", middleware.RequireRoles(models.RoleCompany, models.RoleAdmin), h.ResolveMeeting)
	meetings.Post("/:id/cancel", middleware.RequireRoles(models.RoleBuyer, models.RoleAdmin), h.CancelMeeting)
}

// SetupCompanyRoutes exposes the company directory to signed-in users
func SetupCompanyRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	companies := api.Group("/companies", protected)

	companies.Get("/", h.GetCompanies)
	companies.Get("/:id", h.GetCompany)
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/controllers"
	"github.com/meinhoongagan/bizmatch/middleware"
	"github.com/meinhoongagan/bizmatch/models"
)

// SetupAdminRoutes configures user management, reset and reports
func SetupAdminRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	admin := api.Group("/admin", protected, middleware.RequireRoles(models.RoleAdmin))

	admin.Get("/users", h.GetUsers)
	admin.Post("/users", h.CreateUser)
	admin.Post("/users/import", h.ImportUsers)
	admin.Patch("/users/:id", h.UpdateUser)
	admin.Delete("/users/:id", h.DeleteUser)

	admin.Post("/reset-data", h.ResetData)
	admin.Get("/stats", h.GetStats)
	admin.Get("/export/meetings", h.ExportMeetings)
}

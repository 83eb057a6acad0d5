package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/controllers"
	"github.com/meinhoongagan/bizmatch/middleware"
	"github.com/meinhoongagan/bizmatch/models"
)

// SetupEventRoutes configures the public event read and admin-only edits
func SetupEventRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	event := api.Group("/event")
	event.Get("/", h.GetEvent)
	event.Get("/slots", h.GetEventSlots)
	event.Patch("/", protected, adminOnly, h.UpdateEvent)

	upload := api.Group("/upload", protected, adminOnly)
	upload.Post("/header", h.UploadHeader)
	upload.Delete("/header", h.DeleteHeader)
}

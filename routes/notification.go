package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/controllers"
)

// SetupNotificationRoutes configures the caller's inbox
func SetupNotificationRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	notifications := api.Group("/notifications", protected)

	notifications.Get("/", h.GetNotifications)
	notifications.Get("/unread-count", h.GetUnreadCount)
	notifications.Patch("/read-all", h.MarkAllNotificationsRead)
	notifications.Patch("/:id/read", h.MarkNotificationRead)
	notifications.Delete("/:id", h.DeleteNotification)
}

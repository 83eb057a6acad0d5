package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/middleware"
)

func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	notifications, err := h.Notifications.List(c.UserContext(), middleware.CurrentUser(c).ID, c.QueryBool("unread"))
	if err != nil {
		return err
	}
	return c.JSON(notifications)
}

func (h *Handler) GetUnreadCount(c *fiber.Ctx) error {
	count, err := h.Notifications.UnreadCount(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	n, err := h.Notifications.MarkRead(c.UserContext(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return err
	}
	return c.JSON(n)
}

func (h *Handler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	updated, err := h.Notifications.MarkAllRead(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"updated": updated})
}

func (h *Handler) DeleteNotification(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Notifications.Delete(c.UserContext(), middleware.CurrentUser(c).ID, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Notification deleted successfully"})
}

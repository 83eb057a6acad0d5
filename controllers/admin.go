package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/db"
	"github.com/meinhoongagan/bizmatch/middleware"
	"github.com/meinhoongagan/bizmatch/reports"
	"github.com/meinhoongagan/bizmatch/services"
	"github.com/meinhoongagan/bizmatch/utils"
)

// GetUsers lists every user, optionally filtered by ?role=.
func (h *Handler) GetUsers(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext(), c.Query("role"))
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// CreateUser godoc
// @Summary Create a user of any role
// @Tags admin
// @Accept json
// @Produce json
// @Param user body services.CreateUserInput true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/admin/users [post]
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := utils.BindJSON(c, &input); err != nil {
		return err
	}
	user, err := h.Users.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var input services.UpdateUserInput
	if err := utils.BindJSON(c, &input); err != nil {
		return err
	}
	user, err := h.Users.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if id == middleware.CurrentUser(c).ID {
		return utils.Validation("You cannot delete your own account")
	}
	if err := h.Users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	h.Log.Info("User deleted", "user_id", id, "by", middleware.CurrentUser(c).ID)
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// ResetData godoc
// @Summary Wipe all non-admin data and load the demo seed
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/admin/reset-data [post]
func (h *Handler) ResetData(c *fiber.Ctx) error {
	removed, err := db.ResetData(c.UserContext(), h.DB, h.Users.HashPassword, h.now())
	if err != nil {
		return utils.Internal("Failed to reset data", err)
	}
	for _, id := range removed {
		if err := h.Sessions.RevokeUser(c.UserContext(), id); err != nil {
			h.Log.Warn("Failed to revoke sessions after reset", "user_id", id, "error", err)
		}
	}

	h.Log.Warn("Data reset", "by", middleware.CurrentUser(c).ID, "removed_users", len(removed))
	return c.JSON(fiber.Map{
		"message":      "Data reset successfully",
		"removedUsers": len(removed),
	})
}

func (h *Handler) GetStats(c *fiber.Ctx) error {
	stats, err := services.CollectStats(c.UserContext(), h.DB)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// ExportMeetings downloads every meeting as an xlsx workbook.
func (h *Handler) ExportMeetings(c *fiber.Ctx) error {
	meetings, err := h.Booking.List(c.UserContext(), middleware.CurrentUser(c), c.Query("status"))
	if err != nil {
		return err
	}
	buf, err := reports.ExportMeetings(meetings, h.Config.EventLocation)
	if err != nil {
		return utils.Internal("Failed to build export", err)
	}

	filename := fmt.Sprintf("meetings-%s.xlsx", h.now().Format("20060102"))
	c.Set(fiber.HeaderContentType, reports.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

type importRowError struct {
	Line    int    `json:"line"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ImportUsers creates users from an uploaded xlsx sheet. Bad rows are
// reported and skipped; good rows are kept.
func (h *Handler) ImportUsers(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return utils.Validation("file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return utils.Internal("Failed to read upload", err)
	}
	defer f.Close()

	rows, err := reports.ParseUsers(f)
	if err != nil {
		return utils.Validation(err.Error())
	}

	created := 0
	failures := []importRowError{}
	for _, row := range rows {
		_, err := h.Users.Create(c.UserContext(), services.CreateUserInput{
			Name:        row.Name,
			Email:       row.Email,
			Password:    row.Password,
			Role:        row.Role,
			Description: row.Description,
			Website:     row.Website,
		})
		if err != nil {
			var appErr *utils.AppError
			msg := "Failed to create user"
			if errors.As(err, &appErr) && appErr.Status < fiber.StatusInternalServerError {
				msg = appErr.Message
			} else {
				h.Log.Error("User import failed", "line", row.Line, "error", err)
			}
			failures = append(failures, importRowError{Line: row.Line, Email: row.Email, Message: msg})
			continue
		}
		created++
	}

	return c.JSON(fiber.Map{
		"created": created,
		"failed":  len(failures),
		"errors":  failures,
	})
}

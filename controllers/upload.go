package controllers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/storage"
	"github.com/meinhoongagan/bizmatch/utils"
)

// UploadHeader godoc
// @Summary Upload the event header image
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JPEG, PNG, WebP or GIF"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/upload/header [post]
func (h *Handler) UploadHeader(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return utils.Validation("file is required")
	}
	if fh.Size == 0 {
		return utils.Validation("file is empty")
	}
	if fh.Size > h.Config.UploadMaxBytes {
		return utils.Validation(fmt.Sprintf("file must be at most %d MB", h.Config.UploadMaxBytes>>20))
	}

	// the event must exist before anything is stored
	if _, err := h.Events.Current(c.UserContext()); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return utils.Internal("Failed to read upload", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.Config.UploadMaxBytes+1))
	if err != nil {
		return utils.Internal("Failed to read upload", err)
	}
	if int64(len(data)) > h.Config.UploadMaxBytes {
		return utils.Validation(fmt.Sprintf("file must be at most %d MB", h.Config.UploadMaxBytes>>20))
	}

	_, ext, err := storage.DetectImage(data)
	if err != nil {
		return utils.Validation("Only JPEG, PNG, WebP or GIF images are allowed")
	}

	url, err := h.Storage.Save(c.UserContext(), data, ext)
	if err != nil {
		return utils.Internal("Failed to store image", err)
	}
	previous, err := h.Events.SetHeaderImage(c.UserContext(), url)
	if err != nil {
		h.removeStored(c, url)
		return err
	}
	h.removeStored(c, previous)

	return c.JSON(fiber.Map{"url": url})
}

func (h *Handler) DeleteHeader(c *fiber.Ctx) error {
	previous, err := h.Events.SetHeaderImage(c.UserContext(), "")
	if err != nil {
		return err
	}
	h.removeStored(c, previous)
	return c.JSON(fiber.Map{"message": "Header image removed"})
}

func (h *Handler) removeStored(c *fiber.Ctx, url string) {
	if url == "" {
		return
	}
	if err := h.Storage.Delete(c.UserContext(), url); err != nil {
		h.Log.Warn("Failed to remove stored header image", "url", url, "error", err)
	}
}

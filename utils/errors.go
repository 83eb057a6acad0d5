package utils

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// AppError carries a client-facing message and the HTTP status it maps to.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "Unauthorized"
	}
	return &AppError{Status: fiber.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

func Conflict(message string) *AppError {
	return &AppError{Status: fiber.StatusConflict, Code: CodeConflict, Message: message}
}

func Validation(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: CodeValidation, Message: message}
}

func Internal(message string, err error) *AppError {
	return &AppError{Status: fiber.StatusInternalServerError, Code: CodeInternal, Message: message, Err: err}
}

// IsKind reports whether err is an AppError with the given code.
func IsKind(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// FromDB converts gorm errors into the taxonomy; anything unknown becomes Internal.
func FromDB(err error, resource string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(resource + " already exists")
	default:
		return Internal("Failed to access "+resource, err)
	}
}

// ErrorHandler renders every error returned by a handler as ErrorResponse.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *AppError
		var fiberErr *fiber.Error

		switch {
		case errors.As(err, &appErr):
		case errors.As(err, &fiberErr):
			appErr = fromFiber(fiberErr)
		default:
			appErr = Internal("Internal server error", err)
		}

		if appErr.Status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				"request_id", c.Locals("requestid"),
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
			// never leak internals
			appErr = &AppError{Status: appErr.Status, Code: appErr.Code, Message: "Internal server error"}
		}

		return c.Status(appErr.Status).JSON(ErrorResponse{
			Message: appErr.Message,
			Error:   appErr.Code,
		})
	}
}

func fromFiber(e *fiber.Error) *AppError {
	switch e.Code {
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		return Unauthorized(e.Message)
	case fiber.StatusNotFound:
		return &AppError{Status: fiber.StatusNotFound, Code: CodeNotFound, Message: e.Message}
	case fiber.StatusConflict:
		return Conflict(e.Message)
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
		return &AppError{Status: e.Code, Code: CodeValidation, Message: e.Message}
	default:
		if e.Code < fiber.StatusInternalServerError {
			return &AppError{Status: e.Code, Code: CodeValidation, Message: e.Message}
		}
		return Internal(e.Message, e)
	}
}

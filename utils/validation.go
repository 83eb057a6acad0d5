package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json field names, not Go ones
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("hhmm", validateClock); err != nil {
		panic(fmt.Sprintf("register hhmm validator: %v", err))
	}
	return v
}

func validateClock(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || clockPattern.MatchString(value)
}

// IsClock reports whether value is a zero-padded 24h "HH:MM".
func IsClock(value string) bool {
	return clockPattern.MatchString(value)
}

// Normalizer is implemented by inputs that tidy their fields before validation.
type Normalizer interface {
	Normalize()
}

// Validate normalizes v when it supports it, checks struct tags and returns
// the first failure as a Validation error.
func Validate(v any) error {
	if n, ok := v.(Normalizer); ok {
		n.Normalize()
	}
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return Validation(err.Error())
	}
	return Validation(message(errs[0]))
}

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BindJSON parses the request body into dst and validates it.
func BindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return Validation("Invalid request body")
	}
	return Validate(dst)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "hhmm":
		return fmt.Sprintf("%s must be in HH:MM 24-hour format", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

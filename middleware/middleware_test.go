package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/bizmatch/logger"
	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/utils"
)

func TestIssueTokenClaims(t *testing.T) {
	signed, err := IssueToken("secret", 42, "sid-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) { return []byte("secret"), nil })
	if err != nil || !token.Valid {
		t.Fatalf("parse: %v", err)
	}
	userID, sid, err := extractSubject(token.Claims.(jwt.MapClaims))
	if err != nil {
		t.Fatal(err)
	}
	if userID != 42 || sid != "sid-1" {
		t.Errorf("subject = %d/%s", userID, sid)
	}
	if _, ok := token.Claims.(jwt.MapClaims)["role"]; ok {
		t.Error("role must not be carried in the token")
	}
}

func TestExtractSubjectRejectsBadClaims(t *testing.T) {
	tests := map[string]jwt.MapClaims{
		"missing sub":  {"sid": "x"},
		"numeric sub":  {"sub": 7.0, "sid": "x"},
		"zero sub":     {"sub": "0", "sid": "x"},
		"missing sid":  {"sub": "7"},
		"empty sid":    {"sub": "7", "sid": ""},
		"negative sub": {"sub": "-3", "sid": "x"},
	}
	for name, claims := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := extractSubject(claims); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(logger.Discard().Logger)})
	app.Use(func(c *fiber.Ctx) error {
		if role := c.Get("X-Role"); role != "" {
			c.Locals(localUser, &models.User{ID: 1, Role: models.Role(role)})
		}
		return c.Next()
	})
	app.Get("/", RequireRoles(models.RoleCompany, models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		role string
		want int
	}{
		{"", fiber.StatusUnauthorized},
		{"BUYER", fiber.StatusUnauthorized},
		{"COMPANY", fiber.StatusOK},
		{"ADMIN", fiber.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		if tt.role != "" {
			req.Header.Set("X-Role", tt.role)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tt.want {
			t.Errorf("role %q: status = %d, want %d", tt.role, resp.StatusCode, tt.want)
		}
	}
}

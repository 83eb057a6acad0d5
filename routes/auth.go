package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/controllers"
)

// SetupAuthRoutes configures registration, login and the caller's profile
func SetupAuthRoutes(api fiber.Router, h *controllers.Handler, protected fiber.Handler) {
	auth := api.Group("/auth")

	// Public routes
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	// Protected routes
	auth.Post("/logout", protected, h.Logout)
	auth.Get("/me", protected, h.GetProfile)
	auth.Patch("/me", protected, h.UpdateProfile)
}

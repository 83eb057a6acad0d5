package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/utils"
)

// RequireRoles lets the request through only when the current user has one
// of the given roles. Must run after Protected.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return utils.Unauthorized("")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return utils.Unauthorized("")
	}
}

package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/meinhoongagan/bizmatch/middleware"
	"github.com/meinhoongagan/bizmatch/services"
	"github.com/meinhoongagan/bizmatch/utils"
)

type RegisterInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Role        string `json:"role" validate:"required,oneof=COMPANY BUYER"`
	Description string `json:"description" validate:"max=2000"`
	Website     string `json:"website" validate:"omitempty,url"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *RegisterInput) Normalize() { in.Email = utils.NormalizeEmail(in.Email) }

func (in *LoginInput) Normalize() { in.Email = utils.NormalizeEmail(in.Email) }

type UpdateProfileInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Password    *string `json:"password" validate:"omitempty,min=8,max=72"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Website     *string `json:"website" validate:"omitempty,url"`
}

// Register godoc
// @Summary Self-register a company or buyer account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterInput true "Account"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/auth/register [post]
func (h *Handler) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := utils.BindJSON(c, &input); err != nil {
		return err
	}

	user, err := h.Users.Create(c.UserContext(), services.CreateUserInput{
		Name:        input.Name,
		Email:       input.Email,
		Password:    input.Password,
		Role:        input.Role,
		Description: input.Description,
		Website:     input.Website,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary Exchange credentials for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := utils.BindJSON(c, &input); err != nil {
		return err
	}

	user, err := h.Users.Authenticate(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return err
	}

	ttl := h.Config.SessionTTL
	sessionID := uuid.NewString()
	if err := h.Sessions.Create(c.UserContext(), user.ID, sessionID, ttl); err != nil {
		return utils.Internal("Failed to create session", err)
	}
	token, err := middleware.IssueToken(h.Config.JWTSecret, user.ID, sessionID, ttl)
	if err != nil {
		return utils.Internal("Failed to sign token", err)
	}

	expires := h.now().Add(ttl)
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	h.Log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return c.JSON(fiber.Map{
		"token":     token,
		"expiresAt": expires,
		"user":      user,
	})
}

// Logout revokes the current session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.Sessions.Revoke(c.UserContext(), user.ID, middleware.SessionID(c)); err != nil {
		return utils.Internal("Failed to revoke session", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// UpdateProfile lets any signed-in user edit their own name, password and
// company details. Email and role are managed by admins.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var input UpdateProfileInput
	if err := utils.BindJSON(c, &input); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	updated, err := h.Users.Update(c.UserContext(), user.ID, services.UpdateUserInput{
		Name:        input.Name,
		Password:    input.Password,
		Description: input.Description,
		Website:     input.Website,
	})
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

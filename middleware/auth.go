package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/sessions"
	"github.com/meinhoongagan/bizmatch/utils"
	"gorm.io/gorm"
)

const (
	SessionCookie = "session_token"

	localToken   = "token"
	localUser    = "currentUser"
	localSession = "sessionID"
)

// IssueToken signs a token that names the user and the server-side session.
// Nothing else is put in the claims; the role is always read from the database.
func IssueToken(secret string, userID uint, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Protected validates the bearer token or session cookie, checks the session
// is still live and loads the current user.
func Protected(secret string, store sessions.Store, db *gorm.DB) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		TokenLookup:   "header:Authorization,cookie:" + SessionCookie,
		AuthScheme:    "Bearer",
		ContextKey:    localToken,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return utils.Unauthorized("Invalid or expired session")
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(localToken).(*jwt.Token)
			if !ok {
				return utils.Unauthorized("")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return utils.Unauthorized("")
			}

			userID, sessionID, err := extractSubject(claims)
			if err != nil {
				return utils.Unauthorized("Invalid or expired session")
			}

			live, err := store.Exists(c.UserContext(), userID, sessionID)
			if err != nil {
				return utils.Internal("Failed to check session", err)
			}
			if !live {
				return utils.Unauthorized("Invalid or expired session")
			}

			var user models.User
			if err := db.WithContext(c.UserContext()).First(&user, userID).Error; err != nil {
				return utils.Unauthorized("Invalid or expired session")
			}

			c.Locals(localUser, &user)
			c.Locals(localSession, sessionID)
			return c.Next()
		},
	})
}

func extractSubject(claims jwt.MapClaims) (uint, string, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "", fmt.Errorf("no subject in claims")
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, "", fmt.Errorf("could not parse subject %q", sub)
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return 0, "", fmt.Errorf("no session id in claims")
	}
	return uint(id), sid, nil
}

// CurrentUser returns the user loaded by Protected.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localUser).(*models.User)
	return user
}

// SessionID returns the session the request was authenticated with.
func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(localSession).(string)
	return sid
}

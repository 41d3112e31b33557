package handlers

import (
	"strings"

	"stocktrack/internal/domain"
	applog "stocktrack/internal/log"
	"stocktrack/internal/services"

	"github.com/gofiber/fiber/v2"
)

// sessionID reads the bearer token used by API clients, then the sid cookie
// set for browsers.
func sessionID(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Cookies("sid")
}

// Identify attaches the logged-in user (if any) to the request.
func Identify(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := sessionID(c); sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// actor is the identity recorded on history entries; empty when anonymous.
func actor(c *fiber.Ctx) string {
	if u := currentUser(c); u != nil {
		return u.Username
	}
	return ""
}

// RequireUser guards the JSON API. Run Identify first.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			msg := "No token provided"
			if sessionID(c) != "" {
				msg = "Invalid token"
			}
			applog.Security(c, "access.denied", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": msg})
		}
		return c.Next()
	}
}

// RequirePageUser sends anonymous browsers to the login form.
func RequirePageUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return c.Redirect("/login")
		}
		return c.Next()
	}
}

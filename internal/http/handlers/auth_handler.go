package handlers

import (
	"errors"
	"time"

	"stocktrack/internal/domain"
	applog "stocktrack/internal/log"
	"stocktrack/internal/services"
	"stocktrack/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth         *services.AuthService
	CookieSecure bool
}

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// startSession always issues a fresh sid so a pre-login cookie is never promoted.
func (h *AuthHandler) startSession(c *fiber.Ctx, username, password string) (string, error) {
	sid := uuid.NewString()
	if _, err := h.Auth.Login(sid, username, password); err != nil {
		return "", err
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
	})
	return sid, nil
}

func (h *AuthHandler) endSession(c *fiber.Ctx) {
	if sid := sessionID(c); sid != "" {
		_ = h.Auth.Logout(sid)
	}
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

// POST /login (browser form)
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	pass := c.FormValue("password")
	if _, ok := validate.Username(username); !ok || pass == "" {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": "bad_format"})
		return render(c.Status(fiber.StatusUnauthorized), "login", fiber.Map{"Err": "Invalid username or password"})
	}
	if _, err := h.startSession(c, username, pass); err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username})
		return render(c.Status(fiber.StatusUnauthorized), "login", fiber.Map{"Err": "Invalid username or password"})
	}
	applog.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.Redirect("/")
}

// POST /logout (browser form)
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.endSession(c)
	applog.Audit(c, "auth.logout", nil)
	return c.Redirect("/login")
}

// POST /api/login
func (h *AuthHandler) APILogin(c *fiber.Ctx) error {
	var cr credentials
	if err := c.BodyParser(&cr); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	sid, err := h.startSession(c, cr.Username, cr.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": cr.Username})
		if errors.Is(err, services.ErrBadCreds) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
		}
		return writeError(c, "auth.login", err, nil)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"username": cr.Username})
	return c.JSON(fiber.Map{"token": sid, "username": cr.Username})
}

// POST /api/register
func (h *AuthHandler) APIRegister(c *fiber.Ctx) error {
	var cr credentials
	if err := c.BodyParser(&cr); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	username, ok := validate.Username(cr.Username)
	if !ok || !validate.Password(cr.Password) {
		applog.Security(c, "validation.fail", map[string]any{"field": "credentials"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username or password does not meet requirements."})
	}
	if _, err := h.Auth.Register(username, cr.Password); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username already exists."})
		}
		applog.Error(c, "auth.register.fail", err, map[string]any{"username": username})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create user."})
	}
	applog.Audit(c, "auth.register", map[string]any{"username": username})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created successfully."})
}

// POST /api/logout
func (h *AuthHandler) APILogout(c *fiber.Ctx) error {
	h.endSession(c)
	applog.Audit(c, "auth.logout", nil)
	return c.SendStatus(fiber.StatusNoContent)
}

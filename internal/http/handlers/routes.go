package handlers

import "github.com/gofiber/fiber/v2"

// RegisterAPI mounts the JSON API on r (normally the /api group). Identify
// must already be in the middleware chain.
func RegisterAPI(r fiber.Router, deps *Deps, authH *AuthHandler, loginLimiter fiber.Handler) {
	if loginLimiter == nil {
		loginLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	r.Post("/login", loginLimiter, authH.APILogin)
	r.Post("/register", loginLimiter, authH.APIRegister)
	r.Post("/logout", authH.APILogout)

	ph := deps.ProductHandler
	products := r.Group("/products", RequireUser())
	products.Get("/", ph.List)
	products.Post("/", ph.Create)
	// static paths before /:id
	products.Get("/export", ph.Export)
	products.Post("/export-custom", ph.ExportCustom)
	products.Post("/import", ph.Import)
	products.Get("/:id", ph.Get)
	products.Put("/:id", ph.Update)
	products.Delete("/:id", ph.Delete)
	products.Get("/:id/history", ph.History)
}

package handlers

import (
	"errors"

	"stocktrack/internal/domain"
	applog "stocktrack/internal/log"
	"stocktrack/internal/services"
	"stocktrack/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// PageHandler serves the read-only HTML views of the inventory.
type PageHandler struct {
	Products *ProductHandler
	Inv      *services.InventoryService
}

// GET /
func (h *PageHandler) Inventory(c *fiber.Ctx) error {
	q, ok := h.Products.listQuery(c)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "list_query"})
		return render(c.Status(fiber.StatusBadRequest), "notfound", fiber.Map{"Message": "Invalid sort or filter"})
	}
	page, err := h.Inv.List(c.UserContext(), q)
	if err != nil {
		applog.Error(c, "page.inventory.fail", err, nil)
		return render(c.Status(fiber.StatusInternalServerError), "notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	prev, next := 0, 0
	if page.CurrentPage > 1 {
		prev = page.CurrentPage - 1
	}
	if page.CurrentPage < page.TotalPages {
		next = page.CurrentPage + 1
	}
	return render(c, "inventory", fiber.Map{
		"Page": page, "Query": q, "Prev": prev, "Next": next,
	})
}

// GET /products/:id/history
func (h *PageHandler) History(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return render(c.Status(fiber.StatusNotFound), "notfound", fiber.Map{"Message": "This product does not exist"})
	}
	p, err := h.Inv.Get(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return render(c.Status(fiber.StatusNotFound), "notfound", fiber.Map{"Message": "This product does not exist"})
	}
	if err != nil {
		applog.Error(c, "page.history.fail", err, map[string]any{"product_id": id})
		return render(c.Status(fiber.StatusInternalServerError), "notfound", fiber.Map{"Message": "Could not load history"})
	}
	entries, err := h.Inv.GetHistory(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "page.history.fail", err, map[string]any{"product_id": id})
		return render(c.Status(fiber.StatusInternalServerError), "notfound", fiber.Map{"Message": "Could not load history"})
	}
	return render(c, "history", fiber.Map{"P": p, "Entries": entries})
}

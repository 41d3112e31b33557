package handlers

import (
	"errors"

	"stocktrack/internal/domain"
	applog "stocktrack/internal/log"
	"stocktrack/internal/services"
	"stocktrack/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Inv      *services.InventoryService
	PageSize int
}

// listQuery reads paging, sorting and filter parameters. ok is false when
// sort, order or a filter is not acceptable.
func (h *ProductHandler) listQuery(c *fiber.Ctx) (domain.ListQuery, bool) {
	sort, okSort := validate.SortField(c.Query("sort"))
	desc, okOrder := validate.SortDesc(c.Query("order"))
	category, okCat := validate.Filter(c.Query("category"))
	name, okName := validate.Filter(c.Query("name"))
	q := domain.ListQuery{
		Category: category,
		Name:     name,
		Sort:     sort,
		Desc:     desc,
		Page:     validate.Page(c.Query("page")),
		Limit:    validate.Limit(c.Query("limit"), h.PageSize),
	}
	return q, okSort && okOrder && okCat && okName
}

// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q, ok := h.listQuery(c)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "list_query"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid sort or filter"})
	}
	page, err := h.Inv.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, "product.list", err, nil)
	}
	return c.JSON(page)
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	p, err := h.Inv.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, "product.get", err, map[string]any{"product_id": id})
	}
	return c.JSON(p)
}

// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var f domain.ProductFields
	if err := c.BodyParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	id, err := h.Inv.Create(c.UserContext(), f, actor(c))
	if err != nil {
		return writeError(c, "product.create", err, map[string]any{"name": f.Name})
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": id, "name": f.Name, "stock": f.Stock})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	var f domain.ProductFields
	if err := c.BodyParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := h.Inv.Update(c.UserContext(), id, f, actor(c)); err != nil {
		return writeError(c, "product.update", err, map[string]any{"product_id": id})
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id, "name": f.Name, "stock": f.Stock})
	return c.JSON(fiber.Map{"message": "Product updated successfully"})
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	if err := h.Inv.Delete(c.UserContext(), id); err != nil {
		return writeError(c, "product.delete", err, map[string]any{"product_id": id})
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/products/:id/history
func (h *ProductHandler) History(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	entries, err := h.Inv.GetHistory(c.UserContext(), id)
	if err != nil {
		return writeError(c, "product.history", err, map[string]any{"product_id": id})
	}
	return c.JSON(entries)
}

// GET /api/products/export
func (h *ProductHandler) Export(c *fiber.Ctx) error {
	data, err := h.Inv.Export(c.UserContext(), nil)
	if err != nil {
		return writeError(c, "product.export", err, nil)
	}
	applog.Audit(c, "product.export", map[string]any{"bytes": len(data)})
	return sendCSV(c, "all_products.csv", data)
}

type exportRequest struct {
	IDs []int64 `json:"ids"`
}

// POST /api/products/export-custom
func (h *ProductHandler) ExportCustom(c *fiber.Ctx) error {
	var req exportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	ids, ok := validate.ProductIDs(req.IDs)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "No product IDs provided for custom export."})
	}
	data, err := h.Inv.Export(c.UserContext(), ids)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No products found for the provided IDs."})
		}
		return writeError(c, "product.export", err, map[string]any{"ids": ids})
	}
	applog.Audit(c, "product.export", map[string]any{"ids": ids, "bytes": len(data)})
	return sendCSV(c, "selected_products.csv", data)
}

// POST /api/products/import (multipart field csvFile)
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("csvFile")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "No CSV file uploaded."})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, "product.import", err, map[string]any{"file": fh.Filename})
	}
	defer f.Close()

	res, err := h.Inv.BulkImport(c.UserContext(), f, actor(c))
	if err != nil {
		return writeError(c, "product.import", err, map[string]any{"file": fh.Filename})
	}
	applog.Audit(c, "product.import", map[string]any{
		"file": fh.Filename, "added": res.Added, "skipped": res.Skipped,
	})
	return c.JSON(fiber.Map{
		"message":      "Import completed.",
		"addedCount":   res.Added,
		"skippedCount": res.Skipped,
		"skips":        res.Skips,
	})
}

func sendCSV(c *fiber.Ctx, filename string, data []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv")
	return c.Send(data)
}

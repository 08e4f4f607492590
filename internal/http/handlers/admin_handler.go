package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"techmart/internal/domain"
	applog "techmart/internal/log"
	"techmart/internal/services"
	"techmart/internal/storage"
	"techmart/internal/validate"
)

type AdminHandler struct {
	Catalog *services.CatalogService
	Orders  *services.OrderService
	Reports *services.ReportService
}

type productInput struct {
	Name          string        `json:"name" form:"name"`
	Slug          string        `json:"slug" form:"slug"`
	Description   string        `json:"description" form:"description"`
	CategoryID    string        `json:"categoryId" form:"categoryId"`
	Price         *float64      `json:"price" form:"price"`
	OriginalPrice *float64      `json:"originalPrice" form:"originalPrice"`
	Stock         *int          `json:"stock" form:"stock"`
	Featured      *bool         `json:"featured" form:"featured"`
	Specs         []domain.Spec `json:"specifications"`
}

// CreateProduct handles POST /admin/products.
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in productInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	// price is required; an absent field is not a free product.
	if in.Price == nil {
		return respondErr(c, &domain.ValidationError{Field: "price", Reason: "required"})
	}
	p := domain.Product{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Price:       *in.Price,
		Specs:       in.Specs,
	}
	if in.OriginalPrice != nil {
		p.OriginalPrice = *in.OriginalPrice
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}

	created, err := h.Catalog.Add(p)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product": created.ID})
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateProduct handles PATCH /admin/products/:id with partial fields.
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	var in struct {
		Name          *string       `json:"name"`
		Slug          *string       `json:"slug"`
		Description   *string       `json:"description"`
		CategoryID    *string       `json:"categoryId"`
		Price         *float64      `json:"price"`
		OriginalPrice *float64      `json:"originalPrice"`
		Stock         *int          `json:"stock"`
		Featured      *bool         `json:"featured"`
		Specs         []domain.Spec `json:"specifications"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	p, err := h.Catalog.Update(id, services.ProductUpdate{
		Name:          in.Name,
		Slug:          in.Slug,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Stock:         in.Stock,
		Featured:      in.Featured,
		Specs:         in.Specs,
	})
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product": id})
	return c.JSON(p)
}

// DeleteProduct handles DELETE /admin/products/:id; deleting a missing
// product is a no-op, reported as such.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	removed, err := h.Catalog.Delete(id)
	if err != nil {
		return respondErr(c, err)
	}
	if removed {
		applog.Audit(c, "admin.product.delete", map[string]any{"product": id})
	}
	return c.JSON(fiber.Map{"deleted": removed})
}

func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var in struct {
		Name        string `json:"name" form:"name"`
		Slug        string `json:"slug" form:"slug"`
		Description string `json:"description" form:"description"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	cat, err := h.Catalog.AddCategory(domain.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
	})
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.category.create", map[string]any{"category": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
	}
	var in struct {
		Name        string `json:"name" form:"name"`
		Description string `json:"description" form:"description"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad body"})
	}
	cat, err := h.Catalog.UpdateCategory(id, in.Name, in.Description)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(cat)
}

func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
	}
	removed, err := h.Catalog.DeleteCategory(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"deleted": removed})
}

// ListOrders handles GET /admin/orders?status=.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	f := storage.OrderFilter{Status: domain.OrderStatus(c.Query("status"))}
	if f.Status != "" && !domain.ValidStatus(f.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown status"})
	}
	orders, err := h.Orders.List(f)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// UpdateOrderStatus handles POST /admin/orders/:id/status.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	status := domain.OrderStatus(c.FormValue("status"))
	if err := h.Orders.UpdateStatus(id, status); err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order": id, "status": status})
	return c.JSON(fiber.Map{"ok": true})
}

// SalesReport handles GET /admin/report?start=2026-01-01&end=2026-01-31.
// Missing bounds default to the last 30 days.
func (h *AdminHandler) SalesReport(c *fiber.Ctx) error {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	if s := c.Query("start"); s != "" {
		t, _, err := parseDate(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid start date"})
		}
		start = t
	}
	if s := c.Query("end"); s != "" {
		t, dateOnly, err := parseDate(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid end date"})
		}
		if dateOnly {
			// A bare date is inclusive of the whole end day.
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		end = t
	}

	orders, err := h.Orders.List(storage.OrderFilter{})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(h.Reports.Report(orders, start, end))
}

func parseDate(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse("2006-01-02", s); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	return t, false, err
}

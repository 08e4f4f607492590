package handlers

import (
	"github.com/gofiber/fiber/v2"

	"techmart/internal/services"
	"techmart/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// List maps query params onto a catalog filter.
// GET /api/v1/products?category=&q=&minPrice=&maxPrice=&inStock=&featured=&sort=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := services.Filter{SortBy: c.Query("sort")}

	if cat := c.Query("category"); cat != "" {
		id, ok := validate.ID(cat)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category"})
		}
		f.CategoryID = id
	}
	if q := c.Query("q"); q != "" {
		q, ok := validate.Q(q)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query"})
		}
		f.Search = q
	}
	if s := c.Query("minPrice"); s != "" {
		v, ok := validate.Price(s)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid minPrice"})
		}
		f.MinPrice = &v
	}
	if s := c.Query("maxPrice"); s != "" {
		v, ok := validate.Price(s)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid maxPrice"})
		}
		f.MaxPrice = &v
	}
	f.InStock = c.QueryBool("inStock")
	f.Featured = c.QueryBool("featured")

	return c.JSON(fiber.Map{"products": h.Catalog.Query(f)})
}

// Featured returns the curated strip for the home page.
// GET /api/v1/products/featured?limit=4
func (h *ProductHandler) Featured(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 4)
	if limit < 1 {
		limit = 4
	}
	return c.JSON(fiber.Map{"products": h.Catalog.Featured(limit)})
}

// Detail resolves by id. GET /api/v1/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	p, err := h.Catalog.GetByID(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(p)
}

// BySlug resolves by slug for URL-based lookup. GET /api/v1/products/slug/:slug
func (h *ProductHandler) BySlug(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	p, err := h.Catalog.GetBySlug(slug)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(p)
}

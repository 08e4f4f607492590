package handlers

import (
	"github.com/gofiber/fiber/v2"

	"techmart/internal/services"
	"techmart/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": h.Catalog.Categories()})
}

func (h *CategoryHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
	}
	cat, err := h.Catalog.GetCategory(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(cat)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "techmart/internal/log"
	"techmart/internal/services"
	"techmart/internal/validate"
)

type OrderHandler struct {
	Carts  CartFactory
	Orders *services.OrderService
}

// Checkout commits the session's cart into an order.
// POST /api/v1/checkout {name, email}
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid name"})
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}

	cart, err := h.Carts(ensureSID(c))
	if err != nil {
		return respondErr(c, err)
	}
	order, err := h.Orders.Place(cart, services.Contact{Name: name, Email: email})
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": order.ID, "total": order.Total})
	return c.Status(fiber.StatusCreated).JSON(order)
}

// Detail fetches one order. GET /api/v1/orders/:id
func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	o, err := h.Orders.Get(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(o)
}

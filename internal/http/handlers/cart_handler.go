package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "techmart/internal/log"
	"techmart/internal/services"
	"techmart/internal/validate"
)

type CartHandler struct {
	Carts CartFactory
}

func (h *CartHandler) cart(c *fiber.Ctx) (*services.CartService, error) {
	return h.Carts(ensureSID(c))
}

type cartView struct {
	Items []services.CartRow `json:"items"`
	Total float64            `json:"total"`
	Count int                `json:"count"`
}

// View materializes the cart. GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cart, err := h.cart(c)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(cartView{
		Items: cart.Materialize(),
		Total: cart.Total(),
		Count: cart.ItemCount(),
	})
}

// Add puts qty units of a product in the cart. POST /api/v1/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	qty := validate.Qty(c.FormValue("qty"))

	cart, err := h.cart(c)
	if err != nil {
		return respondErr(c, err)
	}
	if err := cart.AddItem(productID, qty); err != nil {
		return respondErr(c, err)
	}
	applog.Info(c, "cart.add", map[string]any{"product": productID, "qty": qty})
	return c.JSON(fiber.Map{"count": cart.ItemCount()})
}

// Update sets an absolute quantity; zero removes the line.
// POST /api/v1/cart/quantity
func (h *CartHandler) Update(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	// Unlike Add, zero is meaningful here: it removes the line.
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("qty")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing qty"})
	}

	cart, err := h.cart(c)
	if err != nil {
		return respondErr(c, err)
	}
	if err := cart.UpdateQuantity(productID, qty); err != nil {
		return respondErr(c, err)
	}
	applog.Info(c, "cart.update", map[string]any{"product": productID, "qty": qty})
	return c.JSON(fiber.Map{"count": cart.ItemCount()})
}

// Remove drops a line. POST /api/v1/cart/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	cart, err := h.cart(c)
	if err != nil {
		return respondErr(c, err)
	}
	if err := cart.RemoveItem(productID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"count": cart.ItemCount()})
}

// Clear empties the cart. POST /api/v1/cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cart, err := h.cart(c)
	if err != nil {
		return respondErr(c, err)
	}
	if err := cart.Clear(); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"count": 0})
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"techmart/internal/domain"
	applog "techmart/internal/log"
	"techmart/internal/services"
)

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return sid
}

// respondErr maps the domain error taxonomy onto HTTP statuses. Every
// error here is recoverable by the client; only unknown ones log as
// server errors.
func respondErr(c *fiber.Ctx, err error) error {
	var nf *domain.NotFoundError
	var is *domain.InsufficientStockError
	var ve *domain.ValidationError
	var pe *services.PaymentError

	switch {
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nf.Error()})
	case errors.As(err, &is):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     is.Error(),
			"requested": is.Requested,
			"available": is.Available,
		})
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Error()})
	case errors.As(err, &pe):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": pe.Error()})
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		applog.Error(c, "server.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

// Package log wraps zerolog with request-aware helpers. Every entry
// carries an action tag plus optional structured fields; handler code
// passes the fiber context so entries pick up request id, method and path.
package log

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init sets the global level ("debug", "info", "warn", "error"). Unknown
// values fall back to info.
func Init(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger = logger.Level(lvl)
}

func event(e *zerolog.Event, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e = e.Str("action", action)
	if c != nil {
		e = e.Str("ip", c.IP()).Str("method", c.Method()).Str("path", c.Path())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.Str("req_id", rid)
		}
	}
	if err != nil {
		e = e.Err(err)
	}
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	e.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	event(logger.Info(), c, action, nil, fields)
}

// Audit marks state-changing admin and auth actions.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	event(logger.Info().Str("kind", "audit"), c, action, nil, fields)
}

// Security marks rejected or suspicious requests.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	event(logger.Warn().Str("kind", "security"), c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	event(logger.Error(), c, action, err, fields)
}

package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Albaranes-api/internal/application/ports"
	"github.com/jhoicas/Albaranes-api/pkg/logger"
)

const alertTimeout = 5 * time.Second

// RequestLogger registra cada petición con zerolog y avisa al Alerter de las respuestas 5xx.
// alerter puede ser nil.
func RequestLogger(log *logger.Logger, alerter ports.Alerter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Escribe la respuesta antes de leer el status final.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		reqID, _ := c.Locals("requestid").(string)
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		if err, ok := c.Locals(LocalError).(error); ok {
			ev = ev.Err(err)
		}
		ev.Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http")

		if status >= fiber.StatusInternalServerError && alerter != nil {
			msg := fmt.Sprintf("[%d] %s %s (request %s)", status, c.Method(), c.OriginalURL(), reqID)
			if err, ok := c.Locals(LocalError).(error); ok {
				msg += ": " + err.Error()
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
				defer cancel()
				if err := alerter.Alert(ctx, msg); err != nil {
					log.Warn().Err(err).Msg("no se pudo enviar la alerta")
				}
			}()
		}
		return nil
	}
}

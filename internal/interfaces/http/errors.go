package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/domain"
)

// LocalError guarda el error interno de la petición para el log y la alerta.
const LocalError = "request_error"

// statusFor traduce el Kind de dominio a status HTTP. Único punto de traducción.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindInvalidState, domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError escribe el cuerpo de error estándar. Los errores internos y los de servicios
// externos no exponen su detalle; este queda en LocalError para el log.
func respondError(c *fiber.Ctx, err error) error {
	var verr *validationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: verr.code, Message: verr.message, Details: verr.fields,
		})
	}

	kind := domain.KindOf(err)
	status := statusFor(kind)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		c.Locals(LocalError, err)
	}
	switch kind {
	case domain.KindInternal:
		msg = "error interno del servidor"
	case domain.KindUpstream:
		var de *domain.Error
		if errors.As(err, &de) {
			msg = de.Message
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: domain.CodeOf(err), Message: msg})
}

// ErrorHandler manejador de errores de Fiber: rutas inexistentes, body limit, panics recuperados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "ROUTE_NOT_FOUND"
		case fiber.StatusRequestEntityTooLarge:
			code = "PAYLOAD_TOO_LARGE"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		if fe.Code >= fiber.StatusInternalServerError {
			c.Locals(LocalError, err)
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}

package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// listFunc firma común de List y ListArchived en los casos de uso de recursos.
type listFunc[Q any, R any] func(ctx context.Context, p scope.Principal, q Q) (*R, error)

// deleteFunc firma común de Delete en los casos de uso de recursos.
type deleteFunc func(ctx context.Context, p scope.Principal, id string, hard bool) error

// deleteResource archiva el recurso, o lo elimina si llega hard=true.
func deleteResource(c *fiber.Ctx, fn deleteFunc, what string) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	hard := c.QueryBool("hard", false)
	if err := fn(c.UserContext(), p, c.Params("id"), hard); err != nil {
		return respondError(c, err)
	}
	msg := what + " archivado"
	if hard {
		msg = what + " eliminado"
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

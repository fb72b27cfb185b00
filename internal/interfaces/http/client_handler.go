package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/application/usecase"
)

// ClientHandler maneja las peticiones HTTP de clientes.
type ClientHandler struct {
	uc *usecase.ClientUseCase
}

// NewClientHandler construye el handler de clientes.
func NewClientHandler(uc *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         client
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateClientRequest  true  "datos del cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/client [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.CreateClientRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), p, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes activos
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        name    query  string  false  "filtro por nombre"
// @Param        limit   query  int     false  "máx. resultados (por defecto 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200     {object}  dto.ClientListResponse
// @Router       /api/client [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	return h.list(c, h.uc.List)
}

// ListArchived godoc
// @Summary      Listar clientes archivados
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        name    query  string  false  "filtro por nombre"
// @Param        limit   query  int     false  "máx. resultados (por defecto 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200     {object}  dto.ClientListResponse
// @Router       /api/client/archived [get]
func (h *ClientHandler) ListArchived(c *fiber.Ctx) error {
	return h.list(c, h.uc.ListArchived)
}

func (h *ClientHandler) list(c *fiber.Ctx, fn listFunc[dto.ListClientsQuery, dto.ClientListResponse]) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var q dto.ListClientsQuery
	if err := bindQuery(c, &q, q.DefaultPage); err != nil {
		return respondError(c, err)
	}
	out, err := fn(c.UserContext(), p, q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener cliente
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/client/{id} [get]
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         client
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "ID del cliente"
// @Param        body  body  dto.UpdateClientRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ClientResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/client/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateClientRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), p, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Archivar o eliminar cliente
// @Description  Por defecto archiva; hard=true lo elimina definitivamente.
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string  true   "ID del cliente"
// @Param        hard  query  bool    false  "borrado definitivo"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/client/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	return deleteResource(c, h.uc.Delete, "cliente")
}

// Restore godoc
// @Summary      Restaurar cliente archivado
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/client/restore/{id} [put]
func (h *ClientHandler) Restore(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Restore(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

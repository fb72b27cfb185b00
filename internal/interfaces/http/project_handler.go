package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/application/usecase"
)

// ProjectHandler maneja las peticiones HTTP de proyectos.
type ProjectHandler struct {
	uc *usecase.ProjectUseCase
}

// NewProjectHandler construye el handler de proyectos.
func NewProjectHandler(uc *usecase.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proyecto
// @Description  El cliente debe existir y ser visible para el usuario.
// @Tags         project
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateProjectRequest  true  "datos del proyecto"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/project [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.CreateProjectRequest
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
// @Summary      Listar proyectos activos
// @Tags         project
// @Produce      json
// @Security     BearerAuth
// @Param        client_id  query  string  false  "filtro por cliente"
// @Param        status     query  string  false  "pending, in-progress, completed, cancelled"
// @Param        name       query  string  false  "filtro por nombre"
// @Param        limit      query  int     false  "máx. resultados"
// @Param        offset     query  int     false  "desplazamiento"
// @Success      200        {object}  dto.ProjectListResponse
// @Router       /api/project [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	return h.list(c, h.uc.List)
}

// ListArchived godoc
// @Summary      Listar proyectos archivados
// @Tags         project
// @Produce      json
// @Security     BearerAuth
// @Param        client_id  query  string  false  "filtro por cliente"
// @Param        limit      query  int     false  "máx. resultados"
// @Param        offset     query  int     false  "desplazamiento"
// @Success      200        {object}  dto.ProjectListResponse
// @Router       /api/project/archived [get]
func (h *ProjectHandler) ListArchived(c *fiber.Ctx) error {
	return h.list(c, h.uc.ListArchived)
}

func (h *ProjectHandler) list(c *fiber.Ctx, fn listFunc[dto.ListProjectsQuery, dto.ProjectListResponse]) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var q dto.ListProjectsQuery
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
// @Summary      Obtener proyecto
// @Tags         project
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/project/{id} [get]
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
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
// @Summary      Actualizar proyecto
// @Tags         project
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID del proyecto"
// @Param        body  body  dto.UpdateProjectRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/project/{id} [put]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateProjectRequest
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
// @Summary      Archivar o eliminar proyecto
// @Tags         project
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string  true   "ID del proyecto"
// @Param        hard  query  bool    false  "borrado definitivo"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/project/{id} [delete]
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	return deleteResource(c, h.uc.Delete, "proyecto")
}

// Restore godoc
// @Summary      Restaurar proyecto archivado
// @Tags         project
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/project/restore/{id} [put]
func (h *ProjectHandler) Restore(c *fiber.Ctx) error {
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

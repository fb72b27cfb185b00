package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/application/dto"
)

// DeliveryNoteHandler maneja las peticiones HTTP de albaranes.
type DeliveryNoteHandler struct {
	uc *deliverynote.UseCase
}

// NewDeliveryNoteHandler construye el handler de albaranes.
func NewDeliveryNoteHandler(uc *deliverynote.UseCase) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear albarán
// @Description  Asigna el número ALB-AAAA-NNNN y calcula el total a partir de horas y materiales.
// @Tags         deliverynote
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateDeliveryNoteRequest  true  "datos del albarán"
// @Success      201   {object}  dto.DeliveryNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deliverynote [post]
func (h *DeliveryNoteHandler) Create(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.CreateDeliveryNoteRequest
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
// @Summary      Listar albaranes activos
// @Tags         deliverynote
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query  string  false  "filtro por proyecto"
// @Param        client_id   query  string  false  "filtro por cliente (vía sus proyectos)"
// @Param        status      query  string  false  "draft, pending, signed, cancelled"
// @Param        limit       query  int     false  "máx. resultados"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200         {object}  dto.DeliveryNoteListResponse
// @Router       /api/deliverynote [get]
func (h *DeliveryNoteHandler) List(c *fiber.Ctx) error {
	return h.list(c, h.uc.List)
}

// ListArchived godoc
// @Summary      Listar albaranes archivados
// @Tags         deliverynote
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query  string  false  "filtro por proyecto"
// @Param        limit       query  int     false  "máx. resultados"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200         {object}  dto.DeliveryNoteListResponse
// @Router       /api/deliverynote/archived [get]
func (h *DeliveryNoteHandler) ListArchived(c *fiber.Ctx) error {
	return h.list(c, h.uc.ListArchived)
}

func (h *DeliveryNoteHandler) list(c *fiber.Ctx, fn listFunc[dto.ListDeliveryNotesQuery, dto.DeliveryNoteListResponse]) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var q dto.ListDeliveryNotesQuery
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
// @Summary      Obtener albarán
// @Tags         deliverynote
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {object}  dto.DeliveryNoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverynote/{id} [get]
func (h *DeliveryNoteHandler) Get(c *fiber.Ctx) error {
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
// @Summary      Actualizar albarán
// @Description  Un albarán firmado no se puede modificar.
// @Tags         deliverynote
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                         true  "ID del albarán"
// @Param        body  body  dto.UpdateDeliveryNoteRequest  true  "campos a modificar"
// @Success      200   {object}  dto.DeliveryNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deliverynote/{id} [put]
func (h *DeliveryNoteHandler) Update(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateDeliveryNoteRequest
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
// @Summary      Archivar o eliminar albarán
// @Description  Un albarán firmado no se puede archivar; hard=true lo elimina igualmente.
// @Tags         deliverynote
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string  true   "ID del albarán"
// @Param        hard  query  bool    false  "borrado definitivo"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deliverynote/{id} [delete]
func (h *DeliveryNoteHandler) Delete(c *fiber.Ctx) error {
	return deleteResource(c, h.uc.Delete, "albarán")
}

// Restore godoc
// @Summary      Restaurar albarán archivado
// @Tags         deliverynote
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {object}  dto.DeliveryNoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/deliverynote/restore/{id} [put]
func (h *DeliveryNoteHandler) Restore(c *fiber.Ctx) error {
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

// Sign godoc
// @Summary      Firmar albarán
// @Description  Sube la imagen de la firma, marca el albarán como firmado y archiva su PDF.
// @Tags         deliverynote
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true   "ID del albarán"
// @Param        signature  formData  file    true   "imagen de la firma"
// @Param        signer     formData  string  false  "nombre del firmante"
// @Success      200        {object}  dto.DeliveryNoteResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      502        {object}  dto.ErrorResponse
// @Router       /api/deliverynote/sign/{id} [post]
func (h *DeliveryNoteHandler) Sign(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	data, filename, contentType, err := readFormFile(c, "signature")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Sign(c.UserContext(), p, c.Params("id"), deliverynote.SignInput{
		Image:       data,
		Filename:    filename,
		ContentType: contentType,
		Signer:      c.FormValue("signer"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetPDF godoc
// @Summary      PDF del albarán
// @Description  format=json devuelve metadatos; format=pdf redirige al PDF archivado o lo genera al vuelo.
// @Description  Sin format se decide por la cabecera Accept.
// @Tags         deliverynote
// @Produce      json
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id      path   string  true   "ID del albarán"
// @Param        format  query  string  false  "json, pdf o auto"
// @Success      200     {object}  dto.DeliveryNotePDFResponse
// @Success      302     {string}  string  "redirección al PDF archivado"
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/deliverynote/pdf/{id} [get]
func (h *DeliveryNoteHandler) GetPDF(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	format, err := deliverynote.ParsePDFFormat(c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}
	if format == deliverynote.PDFFormatAuto {
		format = negotiatePDFFormat(c.Get(fiber.HeaderAccept))
	}
	res, err := h.uc.GetPDF(c.UserContext(), p, c.Params("id"), format)
	if err != nil {
		return respondError(c, err)
	}
	switch {
	case res.Info != nil:
		return c.JSON(res.Info)
	case res.RedirectURL != "":
		return c.Redirect(res.RedirectURL, fiber.StatusFound)
	default:
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, res.Filename))
		return c.Send(res.Content)
	}
}

// negotiatePDFFormat json si el cliente pide JSON explícitamente; pdf en cualquier otro caso.
func negotiatePDFFormat(accept string) deliverynote.PDFFormat {
	if strings.Contains(strings.ToLower(accept), fiber.MIMEApplicationJSON) {
		return deliverynote.PDFFormatJSON
	}
	return deliverynote.PDFFormatBinary
}


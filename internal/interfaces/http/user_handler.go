package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Albaranes-api/internal/application/auth"
	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/domain"
)

// UserHandler maneja cuenta, compañía e invitaciones del usuario.
type UserHandler struct {
	uc *auth.AuthUseCase
}

// NewUserHandler construye el handler de usuario.
func NewUserHandler(uc *auth.AuthUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario
// @Description  Crea la cuenta y envía un código de verificación de 6 dígitos por email.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "datos de registro"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/user/register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// VerifyEmail godoc
// @Summary      Verificar email
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.VerifyEmailRequest  true  "código"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/user/verify-email [post]
func (h *UserHandler) VerifyEmail(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.VerifyEmailRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.VerifyEmail(c.UserContext(), p, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/user/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RestoreAccount godoc
// @Summary      Reactivar cuenta archivada
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestoreAccountRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/user/restore [post]
func (h *UserHandler) RestoreAccount(c *fiber.Ctx) error {
	var in dto.RestoreAccountRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RestoreAccount(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ForgotPassword godoc
// @Summary      Solicitar código de recuperación
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/user/forgot-password [post]
func (h *UserHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.uc.ForgotPassword(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "código de recuperación enviado"})
}

// ResetPassword godoc
// @Summary      Restablecer contraseña
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "email, código y nueva contraseña"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/user/reset-password [post]
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.uc.ResetPassword(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "contraseña actualizada"})
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Router       /api/user/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Me(c.UserContext(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateMe godoc
// @Summary      Actualizar datos personales
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateUserRequest  true  "nombre y apellidos"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/user/me [put]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateUserRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateMe(c.UserContext(), p, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OnboardCompany godoc
// @Summary      Crear o actualizar la compañía del usuario
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CompanyOnboardingRequest  true  "datos de la compañía"
// @Success      200   {object}  dto.UserResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/user/onboarding/company [patch]
func (h *UserHandler) OnboardCompany(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.CompanyOnboardingRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.OnboardCompany(c.UserContext(), p, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UploadLogo godoc
// @Summary      Subir imagen de perfil
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "imagen"
// @Success      200    {object}  dto.UserResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      502    {object}  dto.ErrorResponse
// @Router       /api/user/logo [patch]
func (h *UserHandler) UploadLogo(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	data, filename, contentType, err := readFormFile(c, "image")
	if err != nil {
		return respondError(c, err)
	}
	if len(data) == 0 {
		return respondError(c, domain.ErrNoFileProvided)
	}
	out, err := h.uc.UploadLogo(c.UserContext(), p, filename, contentType, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteAccount godoc
// @Summary      Eliminar cuenta
// @Description  Por defecto archiva la cuenta; soft=false la elimina definitivamente.
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        soft  query  bool  false  "borrado lógico (por defecto true)"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/user [delete]
func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	hard := !c.QueryBool("soft", true)
	if err := h.uc.DeleteAccount(c.UserContext(), p, hard); err != nil {
		return respondError(c, err)
	}
	msg := "cuenta archivada"
	if hard {
		msg = "cuenta eliminada"
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

// SendInvitation godoc
// @Summary      Invitar a un usuario a la compañía
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InviteRequest  true  "email y rol"
// @Success      201   {object}  dto.InvitationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/user/invitations [post]
func (h *UserHandler) SendInvitation(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.InviteRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SendInvitation(c.UserContext(), p, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReceivedInvitations godoc
// @Summary      Invitaciones recibidas
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.InvitationResponse
// @Router       /api/user/invitations/received [get]
func (h *UserHandler) ListReceivedInvitations(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListReceivedInvitations(c.UserContext(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListSentInvitations godoc
// @Summary      Invitaciones enviadas
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.InvitationResponse
// @Router       /api/user/invitations/sent [get]
func (h *UserHandler) ListSentInvitations(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListSentInvitations(c.UserContext(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AcceptInvitation godoc
// @Summary      Aceptar invitación
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la invitación"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/user/invitations/{id}/accept [put]
func (h *UserHandler) AcceptInvitation(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AcceptInvitation(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RejectInvitation godoc
// @Summary      Rechazar invitación
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la invitación"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/user/invitations/{id}/reject [put]
func (h *UserHandler) RejectInvitation(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.RejectInvitation(c.UserContext(), p, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "invitación rechazada"})
}

// CancelInvitation godoc
// @Summary      Cancelar invitación enviada
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la invitación"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/user/invitations/{id} [delete]
func (h *UserHandler) CancelInvitation(c *fiber.Ctx) error {
	p, err := principalOf(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.CancelInvitation(c.UserContext(), p, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "invitación cancelada"})
}

// readFormFile lee un fichero multipart. Si el campo no existe devuelve data vacío.
func readFormFile(c *fiber.Ctx, field string) (data []byte, filename, contentType string, err error) {
	fh, ferr := c.FormFile(field)
	if ferr != nil {
		return nil, "", "", nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", "", domain.ErrNoFileProvided
	}
	defer f.Close()
	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", domain.ErrNoFileProvided
	}
	return data, fh.Filename, fh.Header.Get("Content-Type"), nil
}

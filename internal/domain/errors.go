package domain

import "errors"

// Kind clasifica los errores de dominio; la capa HTTP lo traduce a status en un único sitio.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindValidation   Kind = "validation"
	KindUpstream     Kind = "upstream_failure"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// Error es un error de dominio con código legible por máquina.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// New construye un error de dominio.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// KindOf devuelve el Kind del primer *Error de la cadena; KindInternal si no hay ninguno.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf devuelve el código del primer *Error de la cadena; "INTERNAL" si no hay ninguno.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL"
}

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = New(KindNotFound, "NOT_FOUND", "recurso no encontrado")
	ErrUserNotFound         = New(KindNotFound, "USER_NOT_FOUND", "usuario no encontrado")
	ErrClientNotFound       = New(KindNotFound, "CLIENT_NOT_FOUND", "cliente no encontrado")
	ErrProjectNotFound      = New(KindNotFound, "PROJECT_NOT_FOUND", "proyecto no encontrado")
	ErrDeliveryNoteNotFound = New(KindNotFound, "DELIVERYNOTE_NOT_FOUND", "albarán no encontrado")
	ErrInvitationNotFound   = New(KindNotFound, "INVITATION_NOT_FOUND_OR_ALREADY_PROCESSED", "invitación no encontrada o ya procesada")
	ErrCompanyNotFound      = New(KindNotFound, "COMPANY_NOT_FOUND", "compañía no encontrada")

	ErrDuplicate             = New(KindConflict, "DUPLICATE", "recurso duplicado")
	ErrEmailAlreadyExists    = New(KindConflict, "USER_ALREADY_EXISTS", "el email ya está registrado")
	ErrClientAlreadyExists   = New(KindConflict, "CLIENT_ALREADY_EXISTS", "ya existe un cliente con ese nombre")
	ErrProjectAlreadyExists  = New(KindConflict, "PROJECT_ALREADY_EXISTS", "ya existe un proyecto con ese nombre para el cliente")
	ErrInvitationAlreadySent = New(KindConflict, "INVITATION_ALREADY_SENT", "ya hay una invitación pendiente para ese usuario")
	ErrUserAlreadyInCompany  = New(KindConflict, "USER_ALREADY_IN_COMPANY", "el usuario ya pertenece a la compañía")
	ErrAlreadyHasCompany     = New(KindConflict, "USER_ALREADY_HAS_COMPANY", "el usuario ya pertenece a una compañía")

	ErrNotArchived         = New(KindInvalidState, "NOT_ARCHIVED", "el recurso no está archivado")
	ErrCannotUpdateSigned  = New(KindInvalidState, "CANNOT_UPDATE_SIGNED", "no se puede modificar un albarán firmado")
	ErrCannotDeleteSigned  = New(KindInvalidState, "CANNOT_DELETE_SIGNED", "no se puede archivar un albarán firmado")
	ErrAlreadySigned       = New(KindInvalidState, "ALREADY_SIGNED", "el albarán ya está firmado")
	ErrCompanyRequired     = New(KindInvalidState, "YOU_NEED_A_COMPANY_TO_INVITE", "necesitas una compañía para invitar")
	ErrInviterHasNoCompany = New(KindInvalidState, "INVITER_HAS_NO_COMPANY", "quien invita ya no tiene compañía")

	ErrInvalidInput            = New(KindValidation, "VALIDATION", "entrada inválida")
	ErrNoSignatureProvided     = New(KindValidation, "NO_SIGNATURE_PROVIDED", "falta la imagen de la firma")
	ErrNoFileProvided          = New(KindValidation, "NO_FILE_PROVIDED", "falta el fichero")
	ErrInvalidVerificationCode = New(KindValidation, "INVALID_VERIFICATION_CODE", "código de verificación incorrecto")
	ErrInvalidResetToken       = New(KindValidation, "INVALID_OR_EXPIRED_TOKEN", "token inválido o caducado")
	ErrCannotInviteYourself    = New(KindValidation, "CANNOT_INVITE_YOURSELF", "no puedes invitarte a ti mismo")

	ErrUnauthorized       = New(KindUnauthorized, "NOT_AUTHORIZED", "no autorizado")
	ErrInvalidCredentials = New(KindUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas")

	ErrForbidden                 = New(KindForbidden, "FORBIDDEN", "acceso denegado")
	ErrEmailNotVerified          = New(KindForbidden, "EMAIL_NOT_VERIFIED", "el email no está verificado")
	ErrVerificationAttemptsSpent = New(KindForbidden, "VERIFICATION_ATTEMPTS_EXCEEDED", "se agotaron los intentos de verificación")

	ErrUploadFailed        = New(KindUpstream, "UPLOAD_FAILED", "no se pudo subir el fichero")
	ErrPDFGenerationFailed = New(KindUpstream, "PDF_GENERATION_FAILED", "no se pudo generar el PDF")
)

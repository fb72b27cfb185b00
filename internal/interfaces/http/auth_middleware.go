package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
	"github.com/jhoicas/Albaranes-api/pkg/jwt"
)

// LocalPrincipal key del principal autenticado en c.Locals.
const LocalPrincipal = "principal"

// PrincipalResolver carga el principal vigente de un usuario (lo implementa auth.AuthUseCase).
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID string) (scope.Principal, error)
}

// AuthMiddleware valida el Bearer Token JWT y carga en c.Locals el principal vigente del usuario.
// Un usuario archivado o eliminado deja de estar autorizado aunque su token no haya caducado.
func AuthMiddleware(jwtSecret string, resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, err := jwt.Parse(jwtSecret, tokenString)
		if jwt.Expired(err) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_EXPIRED", Message: "token caducado"})
		}
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
		}
		p, err := resolver.ResolvePrincipal(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalPrincipal, p)
		return c.Next()
	}
}

// RequireVerified bloquea a los usuarios que aún no verificaron su email. Va después de AuthMiddleware.
func RequireVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return respondError(c, domain.ErrUnauthorized)
		}
		if !p.Verified {
			return respondError(c, domain.ErrEmailNotVerified)
		}
		return c.Next()
	}
}

// GetPrincipal devuelve el principal del contexto (después del middleware de auth).
func GetPrincipal(c *fiber.Ctx) (scope.Principal, bool) {
	p, ok := c.Locals(LocalPrincipal).(scope.Principal)
	return p, ok
}

// principalOf igual que GetPrincipal pero como error de dominio para los handlers.
func principalOf(c *fiber.Ctx) (scope.Principal, error) {
	p, ok := GetPrincipal(c)
	if !ok {
		return scope.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}

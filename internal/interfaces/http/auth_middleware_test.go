package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
	apphttp "github.com/jhoicas/Albaranes-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Albaranes-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "albaranes-test"
	testExpMin    = 60
)

// stubResolver devuelve principales fijos por id de usuario.
type stubResolver map[string]scope.Principal

func (r stubResolver) ResolvePrincipal(_ context.Context, userID string) (scope.Principal, error) {
	p, ok := r[userID]
	if !ok {
		return scope.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}

// buildTestApp monta AuthMiddleware + RequireVerified sobre un handler que devuelve el principal.
func buildTestApp(resolver apphttp.PrincipalResolver) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, resolver),
		apphttp.RequireVerified(),
		func(c *fiber.Ctx) error {
			p, ok := apphttp.GetPrincipal(c)
			if !ok {
				return c.SendStatus(fiber.StatusTeapot)
			}
			return c.JSON(fiber.Map{"user_id": p.UserID, "company_id": p.CompanyID(), "role": p.Role})
		},
	)
	return app
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, userID, testExpMin*time.Minute)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza GET /protected y decodifica el cuerpo.
func doRequest(t *testing.T, app *fiber.App, authHeader string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CargaElPrincipalVigente(t *testing.T) {
	app := buildTestApp(stubResolver{testUserID: {
		UserID:   testUserID,
		Role:     "admin",
		Verified: true,
		Company:  &scope.CompanyRef{ID: testCompanyID},
	}})

	status, body := doRequest(t, app, bearer(t, testUserID))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, testUserID, body["user_id"])
	// La compañía y el rol salen del almacén, no del token.
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "admin", body["role"])
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	status, body := doRequest(t, buildTestApp(stubResolver{}), "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	status, body := doRequest(t, buildTestApp(stubResolver{}), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	status, body := doRequest(t, buildTestApp(stubResolver{}), "Bearer token.invalido.aqui")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testUserID, -time.Minute)
	require.NoError(t, err)
	status, body := doRequest(t, buildTestApp(stubResolver{testUserID: {UserID: testUserID, Verified: true}}), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_EXPIRED", body["code"])
}

func TestAuthMiddleware_UsuarioArchivado_Retorna401(t *testing.T) {
	// Token válido pero el usuario ya no está activo.
	status, body := doRequest(t, buildTestApp(stubResolver{}), bearer(t, testUserID))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "NOT_AUTHORIZED", body["code"])
}

func TestRequireVerified_BloqueaSinVerificar(t *testing.T) {
	app := buildTestApp(stubResolver{testUserID: {UserID: testUserID}})
	status, body := doRequest(t, app, bearer(t, testUserID))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "EMAIL_NOT_VERIFIED", body["code"])
}

func TestErrorHandler_RutaInexistente(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nada", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ROUTE_NOT_FOUND", body.Code)
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/domain"
)

func TestStatusFor(t *testing.T) {
	cases := map[domain.Kind]int{
		domain.KindNotFound:     http.StatusNotFound,
		domain.KindConflict:     http.StatusConflict,
		domain.KindInvalidState: http.StatusBadRequest,
		domain.KindValidation:   http.StatusBadRequest,
		domain.KindUnauthorized: http.StatusUnauthorized,
		domain.KindForbidden:    http.StatusForbidden,
		domain.KindUpstream:     http.StatusBadGateway,
		domain.KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusFor(kind), kind)
	}
}

// respond ejecuta respondError con err y devuelve status y cuerpo.
func respond(t *testing.T, err error) (int, dto.ErrorResponse, *fiber.App) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return respondError(c, err) })
	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, testErr)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body, app
}

func TestRespondError_ErrorDeDominioEnvuelto(t *testing.T) {
	status, body, _ := respond(t, fmt.Errorf("%w: campo name", domain.ErrInvalidInput))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body.Message, "campo name")
}

func TestRespondError_ServicioExternoNoExponeDetalle(t *testing.T) {
	upstream := fmt.Errorf("%w: %v", domain.ErrUploadFailed,
		errors.New("PutObject https://s3.eu-west-1.amazonaws.com/albaranes-privado: AccessDenied"))

	var logged any
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		err := respondError(c, upstream)
		logged = c.Locals(LocalError)
		return err
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "UPLOAD_FAILED", body.Code)
	assert.Equal(t, domain.ErrUploadFailed.Message, body.Message)
	assert.NotContains(t, body.Message, "amazonaws")
	// El detalle sigue disponible para el log.
	require.NotNil(t, logged)
	assert.Contains(t, logged.(error).Error(), "AccessDenied")
}

func TestRespondError_InternoNoExponeDetalle(t *testing.T) {
	status, body, _ := respond(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "password")
}

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Lines []struct {
		Qty int `json:"qty" validate:"min=1"`
	} `json:"lines" validate:"dive"`
}

func TestBindJSON_DetallePorCampo(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var in sample
		if err := bindJSON(c, &in); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	post := func(body string) (int, dto.ErrorResponse) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		var out dto.ErrorResponse
		if resp.StatusCode != fiber.StatusNoContent {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		}
		return resp.StatusCode, out
	}

	status, body := post(`{"email":"no-es-email","lines":[{"qty":0}]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
	fields := map[string]bool{}
	for _, d := range body.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["name"], body.Details)
	assert.True(t, fields["email"], body.Details)
	assert.True(t, fields["lines[0].qty"], body.Details)

	status, body = post(`{"name":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", body.Code)

	status, _ = post(`{"name":"ok"}`)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestNegotiatePDFFormat(t *testing.T) {
	assert.Equal(t, deliverynote.PDFFormatJSON, negotiatePDFFormat("application/json"))
	assert.Equal(t, deliverynote.PDFFormatJSON, negotiatePDFFormat("Application/JSON, text/plain"))
	assert.Equal(t, deliverynote.PDFFormatBinary, negotiatePDFFormat("application/pdf"))
	assert.Equal(t, deliverynote.PDFFormatBinary, negotiatePDFFormat("*/*"))
	assert.Equal(t, deliverynote.PDFFormatBinary, negotiatePDFFormat(""))
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Albaranes-api/internal/application/auth"
	"github.com/jhoicas/Albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/application/ports"
	"github.com/jhoicas/Albaranes-api/internal/application/usecase"
	"github.com/jhoicas/Albaranes-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Albaranes-api/internal/interfaces/http"
	"github.com/jhoicas/Albaranes-api/pkg/logger"
)

type outbox struct {
	mu   sync.Mutex
	last map[string]string
}

func (o *outbox) Send(_ context.Context, msg ports.Email) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		o.last = map[string]string{}
	}
	o.last[msg.To] = msg.Text
	return nil
}

// code devuelve el código de 6 dígitos del último email enviado a to.
func (o *outbox) code(t *testing.T, to string) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	text, ok := o.last[to]
	require.True(t, ok, "sin emails para %s", to)
	return text[len(text)-6:]
}

type blobs struct {
	mu sync.Mutex
	n  int
}

func (b *blobs) Put(_ context.Context, _, _ string, _ []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.n++
	return fmt.Sprintf("cid-%d", b.n), nil
}

func (b *blobs) URL(id string) string { return "https://blobs.test/" + id }

type renderer struct{}

func (renderer) Render(_ context.Context, data deliverynote.PDFData) ([]byte, error) {
	return []byte("%PDF-" + data.Note.Number), nil
}

type api struct {
	t    *testing.T
	app  *fiber.App
	mail *outbox
}

func newAPI(t *testing.T) *api {
	store := memory.NewStore()
	mail := &outbox{}
	files := &blobs{}
	log := logger.Nop()

	authUC := auth.NewAuthUseCase(
		store, store.Users(), store.Companies(), store.Invitations(),
		files, mail, nil,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		log,
	).WithBcryptCost(bcrypt.MinCost)
	noteUC := deliverynote.NewUseCase(
		store, store.DeliveryNotes(), store.Projects(), store.Clients(), store.Users(), store.Companies(),
		renderer{}, files, log,
	).WithClock(func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) })

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         authUC,
		ClientUC:       usecase.NewClientUseCase(store.Clients()),
		ProjectUC:      usecase.NewProjectUseCase(store.Projects(), store.Clients()),
		DeliveryNoteUC: noteUC,
		JWTSecret:      testJWTSecret,
	})
	return &api{t: t, app: app, mail: mail}
}

// call lanza la petición y decodifica el JSON de respuesta en out (si no es nil).
func (a *api) call(method, path, token string, body any, out any) *http.Response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.do(req, token, out)
}

func (a *api) do(req *http.Request, token string, out any) *http.Response {
	a.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// user registra y verifica un usuario; devuelve su token.
func (a *api) user(email string) string {
	a.t.Helper()
	var reg dto.AuthResponse
	resp := a.call(http.MethodPost, "/api/user/register", "", dto.RegisterRequest{
		FirstName: "Test", Email: email, Password: "password123",
	}, &reg)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(a.t, reg.Token)

	resp = a.call(http.MethodPost, "/api/user/verify-email", reg.Token,
		dto.VerifyEmailRequest{Code: a.mail.code(a.t, email)}, nil)
	require.Equal(a.t, http.StatusOK, resp.StatusCode)
	return reg.Token
}

func TestRouter_SinVerificarNoAccedeARecursos(t *testing.T) {
	a := newAPI(t)
	var reg dto.AuthResponse
	a.call(http.MethodPost, "/api/user/register", "", dto.RegisterRequest{
		FirstName: "Ana", Email: "ana@test.com", Password: "password123",
	}, &reg)

	var body dto.ErrorResponse
	resp := a.call(http.MethodGet, "/api/client", reg.Token, nil, &body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "EMAIL_NOT_VERIFIED", body.Code)
}

func TestRouter_RegistroDuplicadoYValidacion(t *testing.T) {
	a := newAPI(t)
	a.user("ana@test.com")

	var body dto.ErrorResponse
	resp := a.call(http.MethodPost, "/api/user/register", "", dto.RegisterRequest{
		FirstName: "Ana", Email: "ANA@test.com", Password: "password123",
	}, &body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USER_ALREADY_EXISTS", body.Code)

	resp = a.call(http.MethodPost, "/api/user/register", "", map[string]string{"email": "x"}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.NotEmpty(t, body.Details)
}

func TestRouter_ClientesAisladosPorUsuario(t *testing.T) {
	a := newAPI(t)
	ana := a.user("ana@test.com")
	luis := a.user("luis@test.com")

	var created dto.ClientResponse
	resp := a.call(http.MethodPost, "/api/client", ana, dto.CreateClientRequest{Name: "Acme"}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.ErrorResponse
	resp = a.call(http.MethodPost, "/api/client", ana, dto.CreateClientRequest{Name: "Acme"}, &body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CLIENT_ALREADY_EXISTS", body.Code)

	resp = a.call(http.MethodGet, "/api/client/"+created.ID, luis, nil, &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "CLIENT_NOT_FOUND", body.Code)

	var list dto.ClientListResponse
	a.call(http.MethodGet, "/api/client", luis, nil, &list)
	assert.Empty(t, list.Items)
	a.call(http.MethodGet, "/api/client?limit=5", ana, nil, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 5, list.Page.Limit)

	resp = a.call(http.MethodGet, "/api/client?limit=500", ana, nil, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.call(http.MethodPost, "/api/client", ana, dto.CreateClientRequest{Name: "Beta", NIF: "B11111111"}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "nif", body.Details[0].Field)

	resp = a.call(http.MethodPost, "/api/client", ana, dto.CreateClientRequest{Name: "Beta", NIF: "B11111119"}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRouter_ArchivarYRestaurarCliente(t *testing.T) {
	a := newAPI(t)
	ana := a.user("ana@test.com")

	var created dto.ClientResponse
	a.call(http.MethodPost, "/api/client", ana, dto.CreateClientRequest{Name: "Acme"}, &created)

	var msg dto.MessageResponse
	resp := a.call(http.MethodDelete, "/api/client/"+created.ID, ana, nil, &msg)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, msg.Message, "archivado")

	resp = a.call(http.MethodGet, "/api/client/"+created.ID, ana, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var archived dto.ClientListResponse
	a.call(http.MethodGet, "/api/client/archived", ana, nil, &archived)
	require.Len(t, archived.Items, 1)
	assert.True(t, archived.Items[0].Deleted)

	var restored dto.ClientResponse
	resp = a.call(http.MethodPut, "/api/client/restore/"+created.ID, ana, nil, &restored)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, restored.Deleted)

	var body dto.ErrorResponse
	resp = a.call(http.MethodPut, "/api/client/restore/"+created.ID, ana, nil, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NOT_ARCHIVED", body.Code)

	resp = a.call(http.MethodDelete, "/api/client/"+created.ID+"?hard=true", ana, nil, &msg)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, msg.Message, "eliminado")
	resp = a.call(http.MethodPut, "/api/client/restore/"+created.ID, ana, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_AlbaranFirmaYPDF(t *testing.T) {
	a := newAPI(t)
	ana := a.user("ana@test.com")

	var client dto.ClientResponse
	a.call(http.MethodPost, "/api/client", ana, dto.CreateClientRequest{Name: "Acme"}, &client)
	var project dto.ProjectResponse
	resp := a.call(http.MethodPost, "/api/project", ana, dto.CreateProjectRequest{Name: "Obra", ClientID: client.ID}, &project)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var note dto.DeliveryNoteResponse
	resp = a.call(http.MethodPost, "/api/deliverynote", ana, map[string]any{
		"project_id":   project.ID,
		"worked_hours": []map[string]any{{"person": "Pepe", "hours": "8", "hourly_rate": "25"}},
	}, &note)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ALB-2025-0001", note.Number)
	assert.Equal(t, "200", note.TotalAmount.String())

	// Sin PDF archivado: json avisa y pdf lo genera al vuelo.
	var info dto.DeliveryNotePDFResponse
	a.call(http.MethodGet, "/api/deliverynote/pdf/"+note.ID+"?format=json", ana, nil, &info)
	assert.Empty(t, info.PDFURL)
	assert.NotEmpty(t, info.Message)

	resp = a.call(http.MethodGet, "/api/deliverynote/pdf/"+note.ID, ana, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-ALB-2025-0001", string(raw))

	// Firma sin imagen.
	var body dto.ErrorResponse
	resp = a.do(multipartRequest(t, "/api/deliverynote/sign/"+note.ID, nil), ana, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NO_SIGNATURE_PROVIDED", body.Code)

	var signed dto.DeliveryNoteResponse
	resp = a.do(multipartRequest(t, "/api/deliverynote/sign/"+note.ID, []byte("png")), ana, &signed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "signed", signed.Status)
	require.NotNil(t, signed.Signature)
	assert.Equal(t, "María", signed.Signature.Signer)
	assert.NotEmpty(t, signed.PDFURL)

	resp = a.call(http.MethodPut, "/api/deliverynote/"+note.ID, ana, map[string]any{"observations": "x"}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CANNOT_UPDATE_SIGNED", body.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/deliverynote/pdf/"+note.ID, nil)
	req.Header.Set("Accept", "application/json")
	a.do(req, ana, &info)
	assert.Equal(t, signed.PDFURL, info.PDFURL)

	resp = a.call(http.MethodGet, "/api/deliverynote/pdf/"+note.ID+"?format=pdf", ana, nil, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, signed.PDFURL, resp.Header.Get("Location"))

	resp = a.call(http.MethodGet, "/api/deliverynote/pdf/"+note.ID+"?format=xml", ana, nil, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// multipartRequest construye POST multipart con la firma (si hay) y el firmante.
func multipartRequest(t *testing.T, path string, signature []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("signer", "María"))
	if signature != nil {
		part, err := w.CreateFormFile("signature", "firma.png")
		require.NoError(t, err)
		_, err = part.Write(signature)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

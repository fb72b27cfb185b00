package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/application/usecase"
	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
	"github.com/jhoicas/Albaranes-api/internal/infrastructure/memory"
)

func principal(userID, companyID string) scope.Principal {
	p := scope.Principal{UserID: userID, Role: entity.RoleUser, Verified: true}
	if companyID != "" {
		p.Company = &scope.CompanyRef{ID: companyID}
	}
	return p
}

func strPtr(s string) *string { return &s }

func newClientUC() *usecase.ClientUseCase {
	return usecase.NewClientUseCase(memory.NewStore().Clients())
}

func TestClientUseCase_CreateYGet(t *testing.T) {
	ctx := context.Background()
	uc := newClientUC()
	p := principal("u1", "c1")

	out, err := uc.Create(ctx, p, dto.CreateClientRequest{
		Name:    "  Construcciones Ruiz ",
		NIF:     "B12345678",
		Address: &dto.AddressDTO{City: "Madrid"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Construcciones Ruiz", out.Name)
	assert.Equal(t, "u1", out.CreatedBy)
	assert.Equal(t, "c1", out.CompanyID)
	assert.Equal(t, "Madrid", out.Address.City)

	// Otro miembro de la compañía lo ve; un usuario ajeno no.
	got, err := uc.Get(ctx, principal("u2", "c1"), out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, got.ID)

	_, err = uc.Get(ctx, principal("u3", ""), out.ID)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestClientUseCase_NombreDuplicadoEnAmbito(t *testing.T) {
	ctx := context.Background()
	uc := newClientUC()

	_, err := uc.Create(ctx, principal("u1", "c1"), dto.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, principal("u2", "c1"), dto.CreateClientRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrClientAlreadyExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// Fuera del ámbito el nombre está libre.
	_, err = uc.Create(ctx, principal("u3", ""), dto.CreateClientRequest{Name: "Acme"})
	assert.NoError(t, err)
}

func TestClientUseCase_Update(t *testing.T) {
	ctx := context.Background()
	uc := newClientUC()
	p := principal("u1", "")

	a, err := uc.Create(ctx, p, dto.CreateClientRequest{Name: "A"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, p, dto.CreateClientRequest{Name: "B"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, p, a.ID, dto.UpdateClientRequest{Name: strPtr("B")})
	assert.ErrorIs(t, err, domain.ErrClientAlreadyExists)

	out, err := uc.Update(ctx, p, a.ID, dto.UpdateClientRequest{Email: strPtr("a@acme.es"), Phone: strPtr("600")})
	require.NoError(t, err)
	assert.Equal(t, "A", out.Name)
	assert.Equal(t, "a@acme.es", out.Email)
	assert.Equal(t, "600", out.Phone)

	_, err = uc.Update(ctx, principal("u9", ""), a.ID, dto.UpdateClientRequest{Phone: strPtr("1")})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestClientUseCase_CicloDeArchivo(t *testing.T) {
	ctx := context.Background()
	uc := newClientUC()
	p := principal("u1", "")
	c, err := uc.Create(ctx, p, dto.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = uc.Restore(ctx, p, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotArchived)

	require.NoError(t, uc.Delete(ctx, p, c.ID, false))

	active, err := uc.List(ctx, p, dto.ListClientsQuery{})
	require.NoError(t, err)
	assert.Empty(t, active.Items)

	archived, err := uc.ListArchived(ctx, p, dto.ListClientsQuery{})
	require.NoError(t, err)
	require.Len(t, archived.Items, 1)
	assert.True(t, archived.Items[0].Deleted)
	require.NotNil(t, archived.Items[0].DeletedAt)
	assert.WithinDuration(t, time.Now(), *archived.Items[0].DeletedAt, time.Minute)

	// Archivar dos veces: el recurso activo ya no existe.
	assert.ErrorIs(t, uc.Delete(ctx, p, c.ID, false), domain.ErrClientNotFound)

	restored, err := uc.Restore(ctx, p, c.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)

	// hard borra también desde archivado.
	require.NoError(t, uc.Delete(ctx, p, c.ID, false))
	require.NoError(t, uc.Delete(ctx, p, c.ID, true))
	_, err = uc.Restore(ctx, p, c.ID)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestClientUseCase_RestaurarConNombreOcupado(t *testing.T) {
	ctx := context.Background()
	uc := newClientUC()
	p := principal("u1", "")
	old, err := uc.Create(ctx, p, dto.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, p, old.ID, false))

	// Con el antiguo archivado el nombre queda libre.
	current, err := uc.Create(ctx, p, dto.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = uc.Restore(ctx, p, old.ID)
	assert.ErrorIs(t, err, domain.ErrClientAlreadyExists)

	archived, err := uc.ListArchived(ctx, p, dto.ListClientsQuery{})
	require.NoError(t, err)
	require.Len(t, archived.Items, 1)
	assert.Equal(t, old.ID, archived.Items[0].ID)

	// Liberado el nombre, la restauración procede.
	require.NoError(t, uc.Delete(ctx, p, current.ID, true))
	restored, err := uc.Restore(ctx, p, old.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
}

func TestClientUseCase_ListFiltraYPagina(t *testing.T) {
	ctx := context.Background()
	uc := newClientUC()
	p := principal("u1", "")
	for _, name := range []string{"Obras Norte", "Obras Sur", "Talleres"} {
		_, err := uc.Create(ctx, p, dto.CreateClientRequest{Name: name})
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, p, dto.ListClientsQuery{Name: "obras"})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	out, err = uc.List(ctx, p, dto.ListClientsQuery{PageRequest: dto.PageRequest{Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 2, out.Page.Limit)

	out, err = uc.List(ctx, p, dto.ListClientsQuery{PageRequest: dto.PageRequest{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
}

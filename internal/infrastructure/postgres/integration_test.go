//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Albaranes-api/internal/domain"
	dnote "github.com/jhoicas/Albaranes-api/internal/domain/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
	"github.com/jhoicas/Albaranes-api/pkg/config"
)

// newTestPool levanta un PostgreSQL efímero, aplica las migraciones y devuelve el pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("albaranes_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, Migrate(dsn))

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func newClient(owner scope.Owner, name string) *entity.Client {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entity.Client{
		ID:        uuid.New().String(),
		Name:      name,
		NIF:       "B12345678",
		Ownership: entity.Ownership{CreatedBy: owner.UserID, CompanyID: owner.CompanyID},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestIntegration_ClientVisibilidadYArchivo(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := NewClientRepository(pool)

	company := uuid.New().String()
	alice := scope.Owner{UserID: uuid.New().String(), CompanyID: company}
	bob := scope.Owner{UserID: uuid.New().String(), CompanyID: company}
	mallory := scope.Owner{UserID: uuid.New().String()}

	c := newClient(alice, "Obras Norte")
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, bob, c.ID, scope.Active)
	require.NoError(t, err)
	require.NotNil(t, got, "un compañero de la misma compañía ve el cliente")
	assert.Equal(t, company, got.CompanyID)

	got, err = repo.GetByID(ctx, mallory, c.ID, scope.All)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Archive(ctx, c.ID, time.Now()))
	assert.ErrorIs(t, repo.Archive(ctx, c.ID, time.Now()), domain.ErrNotFound)

	got, err = repo.GetByID(ctx, alice, c.ID, scope.Active)
	require.NoError(t, err)
	assert.Nil(t, got)

	archived, err := repo.List(ctx, alice, scope.Archived, repository.ClientFilter{})
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.True(t, archived[0].Deleted)
	assert.NotNil(t, archived[0].DeletedAt)

	require.NoError(t, repo.Restore(ctx, c.ID))
	assert.ErrorIs(t, repo.Restore(ctx, c.ID), domain.ErrNotArchived)
	assert.ErrorIs(t, repo.Restore(ctx, uuid.New().String()), domain.ErrNotFound)

	require.NoError(t, repo.Purge(ctx, c.ID))
	got, err = repo.GetByID(ctx, alice, c.ID, scope.All)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIntegration_DeliveryNoteLineasYFirma(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	notes := NewDeliveryNoteRepository(pool)
	owner := scope.Owner{UserID: uuid.New().String()}

	rate := decimal.NewFromInt(20)
	now := time.Now().UTC().Truncate(time.Microsecond)
	n := &entity.DeliveryNote{
		ID:          uuid.New().String(),
		Number:      "ALB-2026-0001",
		ProjectID:   uuid.New().String(),
		Date:        now,
		WorkedHours: []entity.WorkedHours{{Person: "Ana", Hours: decimal.NewFromInt(8), HourlyRate: &rate}},
		Materials:   []entity.Material{{Name: "Cemento", Quantity: decimal.NewFromInt(5)}},
		Status:      entity.DeliveryNoteDraft,
		TotalAmount: decimal.NewFromInt(160),
		Ownership:   entity.Ownership{CreatedBy: owner.UserID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, notes.Create(ctx, n))

	got, err := notes.GetByID(ctx, owner, n.ID, scope.Active)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.WorkedHours, 1)
	assert.True(t, got.WorkedHours[0].HourlyRate.Equal(rate))
	assert.Nil(t, got.Materials[0].Price)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(160)))
	assert.Nil(t, got.Signature)

	sig := entity.Signature{ImageURL: "https://gw/ipfs/cid", Date: now, Signer: "Cliente"}
	require.NoError(t, notes.MarkSigned(ctx, n.ID, sig))
	assert.ErrorIs(t, notes.MarkSigned(ctx, n.ID, sig), domain.ErrAlreadySigned)

	got, err = notes.GetByID(ctx, owner, n.ID, scope.Active)
	require.NoError(t, err)
	require.NotNil(t, got.Signature)
	assert.Equal(t, entity.DeliveryNoteSigned, got.Status)
	assert.Equal(t, "Cliente", got.Signature.Signer)

	list, err := notes.List(ctx, owner, scope.Active, repository.DeliveryNoteFilter{ProjectIDs: []string{n.ProjectID}})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Update: firmado es estado inválido; archivado o inexistente es NotFound.
	assert.ErrorIs(t, notes.Update(ctx, n), domain.ErrCannotUpdateSigned)
	draft := *n
	draft.ID = uuid.New().String()
	draft.Number = "ALB-2026-0002"
	draft.Status = entity.DeliveryNoteDraft
	draft.Signature = nil
	require.NoError(t, notes.Create(ctx, &draft))
	require.NoError(t, notes.Archive(ctx, draft.ID, now))
	assert.ErrorIs(t, notes.Update(ctx, &draft), domain.ErrNotFound)
	missing := draft
	missing.ID = uuid.New().String()
	assert.ErrorIs(t, notes.Update(ctx, &missing), domain.ErrNotFound)
}

func TestIntegration_ContadorConcurrente(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	runner := NewTxRunner(pool)
	owner := scope.Owner{UserID: uuid.New().String()}

	const workers = 20
	var wg sync.WaitGroup
	values := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.RunNumbering(ctx, func(counters repository.CounterRepository, _ repository.DeliveryNoteRepository) error {
				v, err := counters.Next(ctx, owner, 2026)
				if err != nil {
					return err
				}
				values <- v
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(values)

	seen := map[int]bool{}
	for v := range values {
		assert.False(t, seen[v], "valor repetido %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[i])
	}
}

func TestIntegration_InvitacionPendienteUnica(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	companies := NewCompanyRepository(pool)
	invitations := NewInvitationRepository(pool)

	now := time.Now().UTC()
	inviter := &entity.User{ID: uuid.New().String(), FirstName: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: entity.RoleAdmin, CreatedAt: now, UpdatedAt: now}
	invitee := &entity.User{ID: uuid.New().String(), FirstName: "Luis", Email: "luis@example.com", PasswordHash: "x", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, inviter))
	require.NoError(t, users.Create(ctx, invitee))
	assert.ErrorIs(t, users.Create(ctx, &entity.User{ID: uuid.New().String(), Email: "ana@example.com", CreatedAt: now, UpdatedAt: now}), domain.ErrDuplicate)

	company := &entity.Company{ID: uuid.New().String(), Name: "Reformas SL", FounderID: inviter.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, companies.Create(ctx, company))

	inv := &entity.Invitation{
		ID: uuid.New().String(), InviterID: inviter.ID, InviteeID: invitee.ID, CompanyID: company.ID,
		Role: entity.RoleUser, Status: entity.InvitationPending, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, invitations.Create(ctx, inv))

	dup := *inv
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, invitations.Create(ctx, &dup), domain.ErrDuplicate)

	require.NoError(t, invitations.UpdateStatus(ctx, inv.ID, entity.InvitationAccepted))
	assert.ErrorIs(t, invitations.UpdateStatus(ctx, inv.ID, entity.InvitationRejected), domain.ErrInvitationNotFound)

	// Resuelta la anterior, se puede volver a invitar.
	require.NoError(t, invitations.Create(ctx, &dup))
}

func TestIntegration_ContadorContinuaTrasUnirseACompania(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	companies := NewCompanyRepository(pool)
	notes := NewDeliveryNoteRepository(pool)
	counters := NewCounterRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	ana := &entity.User{ID: uuid.New().String(), FirstName: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, ana))
	solo := scope.Owner{UserID: ana.ID}

	// Dos albaranes personales de Ana.
	for i := 0; i < 2; i++ {
		seq, err := counters.Next(ctx, solo, 2026)
		require.NoError(t, err)
		require.NoError(t, notes.Create(ctx, &entity.DeliveryNote{
			ID: uuid.New().String(), Number: dnote.FormatNumber(2026, seq), ProjectID: uuid.New().String(),
			Date: now, Status: entity.DeliveryNoteDraft, Ownership: entity.Ownership{CreatedBy: ana.ID},
			CreatedAt: now, UpdatedAt: now,
		}))
	}

	company := &entity.Company{ID: uuid.New().String(), Name: "Reformas SL", FounderID: ana.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, companies.Create(ctx, company))
	ana.CompanyID = company.ID
	require.NoError(t, users.Update(ctx, ana))
	luis := &entity.User{ID: uuid.New().String(), FirstName: "Luis", Email: "luis@example.com", PasswordHash: "x", Role: entity.RoleUser, CompanyID: company.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, luis))

	// El contador de la compañía arranca por encima de lo que ya ven sus miembros.
	v, err := counters.Next(ctx, scope.Owner{UserID: luis.ID, CompanyID: company.ID}, 2026)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	v, err = counters.Next(ctx, scope.Owner{UserID: ana.ID, CompanyID: company.ID}, 2026)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	v, err = counters.Next(ctx, scope.Owner{UserID: ana.ID, CompanyID: company.ID}, 2027)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestIntegration_NombresUnicosEntreActivos(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	clients := NewClientRepository(pool)
	projects := NewProjectRepository(pool)

	company := uuid.New().String()
	alice := scope.Owner{UserID: uuid.New().String(), CompanyID: company}
	bob := scope.Owner{UserID: uuid.New().String(), CompanyID: company}
	solo := scope.Owner{UserID: uuid.New().String()}

	first := newClient(alice, "Obras Norte")
	require.NoError(t, clients.Create(ctx, first))
	// Mismo nombre en la misma compañía, aunque lo cree otro miembro.
	assert.ErrorIs(t, clients.Create(ctx, newClient(bob, "Obras Norte")), domain.ErrDuplicate)
	// Otro ámbito no colisiona.
	require.NoError(t, clients.Create(ctx, newClient(solo, "Obras Norte")))
	require.NoError(t, clients.Create(ctx, newClient(solo, "Obras Sur")))
	renamed := newClient(solo, "Obras Este")
	require.NoError(t, clients.Create(ctx, renamed))
	renamed.Name = "Obras Sur"
	assert.ErrorIs(t, clients.Update(ctx, renamed), domain.ErrDuplicate)

	// Archivado libera el nombre; restaurarlo con un activo homónimo choca.
	require.NoError(t, clients.Archive(ctx, first.ID, time.Now()))
	second := newClient(bob, "Obras Norte")
	require.NoError(t, clients.Create(ctx, second))
	assert.ErrorIs(t, clients.Restore(ctx, first.ID), domain.ErrDuplicate)

	now := time.Now().UTC().Truncate(time.Microsecond)
	newProject := func(owner scope.Owner, clientID string) *entity.Project {
		return &entity.Project{
			ID: uuid.New().String(), Name: "Nave", ClientID: clientID, Status: entity.ProjectPending,
			Ownership: entity.Ownership{CreatedBy: owner.UserID, CompanyID: owner.CompanyID},
			CreatedAt: now, UpdatedAt: now,
		}
	}
	pr := newProject(alice, second.ID)
	require.NoError(t, projects.Create(ctx, pr))
	assert.ErrorIs(t, projects.Create(ctx, newProject(bob, second.ID)), domain.ErrDuplicate)
	// El par es (nombre, cliente): otro cliente admite el mismo nombre.
	require.NoError(t, projects.Create(ctx, newProject(bob, uuid.New().String())))

	require.NoError(t, projects.Archive(ctx, pr.ID, time.Now()))
	require.NoError(t, projects.Create(ctx, newProject(bob, second.ID)))
	assert.ErrorIs(t, projects.Restore(ctx, pr.ID), domain.ErrDuplicate)
}

package auth

import (
	"context"

	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// TxRunner ejecuta escrituras de varias filas (invitaciones, alta de compañía) en una transacción.
type TxRunner interface {
	RunAuth(ctx context.Context, fn func(
		users repository.UserRepository,
		companies repository.CompanyRepository,
		invitations repository.InvitationRepository,
	) error) error
}

// PrincipalCache caché de principales resueltos por el middleware de autenticación.
type PrincipalCache interface {
	Get(ctx context.Context, userID string) (*scope.Principal, bool)
	Set(ctx context.Context, p scope.Principal)
	Invalidate(ctx context.Context, userIDs ...string)
}

// NopCache caché que nunca guarda nada.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*scope.Principal, bool) { return nil, false }
func (NopCache) Set(context.Context, scope.Principal) {}
func (NopCache) Invalidate(context.Context, ...string) {}

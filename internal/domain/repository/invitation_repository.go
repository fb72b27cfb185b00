package repository

import (
	"context"

	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
)

// InvitationRepository define el puerto de persistencia para Invitation.
type InvitationRepository interface {
	// Create devuelve domain.ErrDuplicate si ya hay una pendiente para (inviter, invitee).
	Create(ctx context.Context, inv *entity.Invitation) error
	GetByID(ctx context.Context, id string) (*entity.Invitation, error)
	FindPending(ctx context.Context, inviterID, inviteeID string) (*entity.Invitation, error)
	ListReceived(ctx context.Context, inviteeID string) ([]*entity.Invitation, error)
	ListSent(ctx context.Context, inviterID string) ([]*entity.Invitation, error)
	// UpdateStatus cambia el estado solo si sigue pendiente; domain.ErrInvitationNotFound si no.
	UpdateStatus(ctx context.Context, id, status string) error
	// DeletePending borra la invitación solo si sigue pendiente; domain.ErrInvitationNotFound si no.
	DeletePending(ctx context.Context, id string) error
}

package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// SendInvitation invita a un usuario registrado a la compañía del principal.
func (uc *AuthUseCase) SendInvitation(ctx context.Context, p scope.Principal, in dto.InviteRequest) (*dto.InvitationResponse, error) {
	if !p.HasCompany() {
		return nil, domain.ErrCompanyRequired
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}

	var inv *entity.Invitation
	err := uc.txRunner.RunAuth(ctx, func(users repository.UserRepository, companies repository.CompanyRepository, invitations repository.InvitationRepository) error {
		inviter, err := users.GetByID(ctx, p.UserID, scope.Active)
		if err != nil {
			return err
		}
		if inviter == nil {
			return domain.ErrUserNotFound
		}
		if inviter.CompanyID == "" {
			return domain.ErrCompanyRequired
		}
		company, err := companies.GetByID(ctx, inviter.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrCompanyNotFound
		}

		invitee, err := users.GetByEmail(ctx, normalizeEmail(in.Email), scope.Active)
		if err != nil {
			return err
		}
		if invitee == nil {
			return domain.ErrUserNotFound
		}
		if invitee.ID == inviter.ID {
			return domain.ErrCannotInviteYourself
		}
		if invitee.CompanyID == company.ID {
			return domain.ErrUserAlreadyInCompany
		}
		pending, err := invitations.FindPending(ctx, inviter.ID, invitee.ID)
		if err != nil {
			return err
		}
		if pending != nil {
			return domain.ErrInvitationAlreadySent
		}

		now := uc.now()
		inv = &entity.Invitation{
			ID:           uuid.New().String(),
			InviterID:    inviter.ID,
			InviteeID:    invitee.ID,
			CompanyID:    company.ID,
			CompanyName:  company.Name,
			InviterEmail: inviter.Email,
			InviteeEmail: invitee.Email,
			Role:         role,
			Status:       entity.InvitationPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := invitations.Create(ctx, inv); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrInvitationAlreadySent
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg, err := invitationEmail(inv.InviteeEmail, inv.InviterEmail, inv.CompanyName, inv.Role)
	uc.send(ctx, msg, err, "invitation")

	out := dto.InvitationFromEntity(inv)
	return &out, nil
}

// ListReceivedInvitations invitaciones recibidas por el principal.
func (uc *AuthUseCase) ListReceivedInvitations(ctx context.Context, p scope.Principal) ([]dto.InvitationResponse, error) {
	list, err := uc.invitations.ListReceived(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return toInvitationResponses(list), nil
}

// ListSentInvitations invitaciones enviadas por el principal.
func (uc *AuthUseCase) ListSentInvitations(ctx context.Context, p scope.Principal) ([]dto.InvitationResponse, error) {
	list, err := uc.invitations.ListSent(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return toInvitationResponses(list), nil
}

// AcceptInvitation une al principal a la compañía actual de quien invitó, con el rol invitado.
func (uc *AuthUseCase) AcceptInvitation(ctx context.Context, p scope.Principal, id string) (*dto.UserResponse, error) {
	var (
		invitee *entity.User
		company *entity.Company
	)
	err := uc.txRunner.RunAuth(ctx, func(users repository.UserRepository, companies repository.CompanyRepository, invitations repository.InvitationRepository) error {
		inv, err := pendingFor(ctx, invitations, id, func(i *entity.Invitation) bool { return i.InviteeID == p.UserID })
		if err != nil {
			return err
		}
		inviter, err := users.GetByID(ctx, inv.InviterID, scope.Active)
		if err != nil {
			return err
		}
		if inviter == nil || inviter.CompanyID == "" {
			return domain.ErrInviterHasNoCompany
		}
		c, err := companies.GetByID(ctx, inviter.CompanyID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrCompanyNotFound
		}
		company = c

		u, err := users.GetByID(ctx, p.UserID, scope.Active)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		invitee = u

		if err := invitations.UpdateStatus(ctx, inv.ID, entity.InvitationAccepted); err != nil {
			return err
		}
		invitee.CompanyID = company.ID
		invitee.Role = inv.Role
		invitee.UpdatedAt = uc.now()
		return users.Update(ctx, invitee)
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, invitee.ID)
	out := dto.UserFromEntity(invitee, company)
	return &out, nil
}

// RejectInvitation rechaza una invitación pendiente recibida.
func (uc *AuthUseCase) RejectInvitation(ctx context.Context, p scope.Principal, id string) error {
	return uc.txRunner.RunAuth(ctx, func(_ repository.UserRepository, _ repository.CompanyRepository, invitations repository.InvitationRepository) error {
		inv, err := pendingFor(ctx, invitations, id, func(i *entity.Invitation) bool { return i.InviteeID == p.UserID })
		if err != nil {
			return err
		}
		return invitations.UpdateStatus(ctx, inv.ID, entity.InvitationRejected)
	})
}

// CancelInvitation retira una invitación pendiente enviada por el principal.
func (uc *AuthUseCase) CancelInvitation(ctx context.Context, p scope.Principal, id string) error {
	return uc.txRunner.RunAuth(ctx, func(_ repository.UserRepository, _ repository.CompanyRepository, invitations repository.InvitationRepository) error {
		inv, err := pendingFor(ctx, invitations, id, func(i *entity.Invitation) bool { return i.InviterID == p.UserID })
		if err != nil {
			return err
		}
		return invitations.DeletePending(ctx, inv.ID)
	})
}

// pendingFor carga una invitación pendiente que pertenezca al principal; si no, ErrInvitationNotFound.
func pendingFor(ctx context.Context, repo repository.InvitationRepository, id string, owns func(*entity.Invitation) bool) (*entity.Invitation, error) {
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.Status != entity.InvitationPending || !owns(inv) {
		return nil, domain.ErrInvitationNotFound
	}
	return inv, nil
}

func toInvitationResponses(list []*entity.Invitation) []dto.InvitationResponse {
	out := make([]dto.InvitationResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.InvitationFromEntity(inv))
	}
	return out
}

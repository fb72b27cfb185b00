package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
)

var _ repository.InvitationRepository = (*InvitationRepo)(nil)

const invitationColumns = `id, inviter_id, invitee_id, company_id, company_name, inviter_email,
	invitee_email, role, status, created_at, updated_at`

// InvitationRepo implementación de InvitationRepository (usable con pool o tx).
type InvitationRepo struct {
	q Querier
}

// NewInvitationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvitationRepository(q Querier) *InvitationRepo {
	return &InvitationRepo{q: q}
}

// Create persiste una invitación; el índice parcial uq_invitations_pending impide duplicar pendientes.
func (r *InvitationRepo) Create(ctx context.Context, inv *entity.Invitation) error {
	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InviterID, inv.InviteeID, inv.CompanyID, inv.CompanyName, inv.InviterEmail,
		inv.InviteeEmail, inv.Role, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// GetByID obtiene una invitación por ID.
func (r *InvitationRepo) GetByID(ctx context.Context, id string) (*entity.Invitation, error) {
	return r.one(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id)
}

// FindPending invitación pendiente entre inviter e invitee.
func (r *InvitationRepo) FindPending(ctx context.Context, inviterID, inviteeID string) (*entity.Invitation, error) {
	return r.one(ctx, `SELECT `+invitationColumns+` FROM invitations
		WHERE inviter_id = $1 AND invitee_id = $2 AND status = 'pending'`, inviterID, inviteeID)
}

// ListReceived invitaciones recibidas, más recientes primero.
func (r *InvitationRepo) ListReceived(ctx context.Context, inviteeID string) ([]*entity.Invitation, error) {
	return r.list(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE invitee_id = $1 ORDER BY created_at DESC`, inviteeID)
}

// ListSent invitaciones enviadas, más recientes primero.
func (r *InvitationRepo) ListSent(ctx context.Context, inviterID string) ([]*entity.Invitation, error) {
	return r.list(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE inviter_id = $1 ORDER BY created_at DESC`, inviterID)
}

// UpdateStatus resuelve una invitación pendiente.
func (r *InvitationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invitations SET status = $2, updated_at = NOW() WHERE id = $1 AND status = 'pending'`, id, status)
	if err != nil {
		return fmt.Errorf("update invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// DeletePending cancela (borra) una invitación pendiente.
func (r *InvitationRepo) DeletePending(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invitations WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

func (r *InvitationRepo) one(ctx context.Context, query string, args ...any) (*entity.Invitation, error) {
	inv, err := scanInvitation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

func (r *InvitationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Invitation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvitation(row rowScanner) (*entity.Invitation, error) {
	var inv entity.Invitation
	err := row.Scan(
		&inv.ID, &inv.InviterID, &inv.InviteeID, &inv.CompanyID, &inv.CompanyName, &inv.InviterEmail,
		&inv.InviteeEmail, &inv.Role, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

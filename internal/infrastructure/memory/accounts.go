package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

var (
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.CompanyRepository    = (*CompanyRepo)(nil)
	_ repository.InvitationRepository = (*InvitationRepo)(nil)
)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
	archiver[entity.User]
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.users[u.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.st.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string, mode scope.ArchiveMode) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.st.users[id]
	if !ok || !mode.Matches(u.Deleted) {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string, mode scope.ArchiveMode) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) && mode.Matches(u.Deleted) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByResetToken(_ context.Context, email, token string, now time.Time) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if email == "" || token == "" {
		return nil, nil
	}
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) && u.ResetToken == token && !u.Deleted && u.ResetExpiresAt != nil && now.Before(*u.ResetExpiresAt) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.users[u.ID] = *u
	return nil
}

// CompanyRepo implementación en memoria de CompanyRepository.
type CompanyRepo struct {
	s *Store
}

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.companies[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.st.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.companies[c.ID] = *c
	return nil
}

// InvitationRepo implementación en memoria de InvitationRepository.
type InvitationRepo struct {
	s *Store
}

func (r *InvitationRepo) Create(_ context.Context, inv *entity.Invitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.invitations {
		if other.ID == inv.ID {
			return domain.ErrDuplicate
		}
		if other.Status == entity.InvitationPending && other.InviterID == inv.InviterID && other.InviteeID == inv.InviteeID {
			return domain.ErrDuplicate
		}
	}
	r.s.st.invitations[inv.ID] = *inv
	return nil
}

func (r *InvitationRepo) GetByID(_ context.Context, id string) (*entity.Invitation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.st.invitations[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvitationRepo) FindPending(_ context.Context, inviterID, inviteeID string) (*entity.Invitation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inv := range r.s.st.invitations {
		if inv.Status == entity.InvitationPending && inv.InviterID == inviterID && inv.InviteeID == inviteeID {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *InvitationRepo) ListReceived(_ context.Context, inviteeID string) ([]*entity.Invitation, error) {
	return r.list(func(inv entity.Invitation) bool { return inv.InviteeID == inviteeID }), nil
}

func (r *InvitationRepo) ListSent(_ context.Context, inviterID string) ([]*entity.Invitation, error) {
	return r.list(func(inv entity.Invitation) bool { return inv.InviterID == inviterID }), nil
}

func (r *InvitationRepo) list(keep func(entity.Invitation) bool) []*entity.Invitation {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Invitation
	for _, inv := range r.s.st.invitations {
		if keep(inv) {
			inv := inv
			list = append(list, &inv)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (r *InvitationRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.st.invitations[id]
	if !ok || inv.Status != entity.InvitationPending {
		return domain.ErrInvitationNotFound
	}
	inv.Status = status
	inv.UpdatedAt = time.Now()
	r.s.st.invitations[id] = inv
	return nil
}

func (r *InvitationRepo) DeletePending(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.st.invitations[id]
	if !ok || inv.Status != entity.InvitationPending {
		return domain.ErrInvitationNotFound
	}
	delete(r.s.st.invitations, id)
	return nil
}

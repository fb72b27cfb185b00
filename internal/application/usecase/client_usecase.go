package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Albaranes-api/internal/application/archive"
	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// ClientUseCase casos de uso para clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente. El nombre es único dentro del ámbito del principal.
func (uc *ClientUseCase) Create(ctx context.Context, p scope.Principal, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	owner := scope.For(p)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.FindByName(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrClientAlreadyExists
	}

	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      name,
		NIF:       strings.TrimSpace(in.NIF),
		Email:     in.Email,
		Phone:     in.Phone,
		Ownership: entity.Ownership{CreatedBy: owner.UserID, CompanyID: owner.CompanyID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Address != nil {
		client.Address = in.Address.Entity()
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrClientAlreadyExists
		}
		return nil, err
	}
	out := dto.ClientFromEntity(client)
	return &out, nil
}

// Get obtiene un cliente activo visible para el principal.
func (uc *ClientUseCase) Get(ctx context.Context, p scope.Principal, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, scope.For(p), id, scope.Active)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrClientNotFound
	}
	out := dto.ClientFromEntity(c)
	return &out, nil
}

// List lista los clientes activos visibles.
func (uc *ClientUseCase) List(ctx context.Context, p scope.Principal, q dto.ListClientsQuery) (*dto.ClientListResponse, error) {
	return uc.list(ctx, p, scope.Active, q)
}

// ListArchived lista los clientes archivados visibles.
func (uc *ClientUseCase) ListArchived(ctx context.Context, p scope.Principal, q dto.ListClientsQuery) (*dto.ClientListResponse, error) {
	return uc.list(ctx, p, scope.Archived, q)
}

func (uc *ClientUseCase) list(ctx context.Context, p scope.Principal, mode scope.ArchiveMode, q dto.ListClientsQuery) (*dto.ClientListResponse, error) {
	q.DefaultPage()
	list, err := uc.repo.List(ctx, scope.For(p), mode, repository.ClientFilter{
		Name: strings.TrimSpace(q.Name),
		Page: repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ClientListResponse{
		Items: make([]dto.ClientResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, c := range list {
		out.Items = append(out.Items, dto.ClientFromEntity(c))
	}
	return out, nil
}

// Update modifica los campos permitidos de un cliente activo.
func (uc *ClientUseCase) Update(ctx context.Context, p scope.Principal, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	owner := scope.For(p)
	c, err := uc.repo.GetByID(ctx, owner, id, scope.Active)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrClientNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if name != c.Name {
			other, err := uc.repo.FindByName(ctx, owner, name)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != c.ID {
				return nil, domain.ErrClientAlreadyExists
			}
			c.Name = name
		}
	}
	if in.NIF != nil {
		c.NIF = strings.TrimSpace(*in.NIF)
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = in.Address.Entity()
	}
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrClientAlreadyExists
		}
		return nil, err
	}
	out := dto.ClientFromEntity(c)
	return &out, nil
}

// Delete archiva el cliente, o lo elimina definitivamente si hard (también si ya estaba archivado).
func (uc *ClientUseCase) Delete(ctx context.Context, p scope.Principal, id string, hard bool) error {
	mode := scope.Active
	if hard {
		mode = scope.All
	}
	c, err := uc.repo.GetByID(ctx, scope.For(p), id, mode)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrClientNotFound
	}
	if err := archive.Remove(ctx, uc.repo, c.ID, hard, time.Now()); err != nil {
		return mapNotFound(err, domain.ErrClientNotFound)
	}
	return nil
}

// Restore reactiva un cliente archivado.
func (uc *ClientUseCase) Restore(ctx context.Context, p scope.Principal, id string) (*dto.ClientResponse, error) {
	owner := scope.For(p)
	c, err := uc.repo.GetByID(ctx, owner, id, scope.All)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrClientNotFound
	}
	if c.Deleted {
		// Mientras estaba archivado pudo crearse otro activo con el mismo nombre.
		other, err := uc.repo.FindByName(ctx, owner, c.Name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != c.ID {
			return nil, domain.ErrClientAlreadyExists
		}
	}
	if err := archive.Restore(ctx, uc.repo, c.ID, c.Deleted); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrClientAlreadyExists
		}
		return nil, mapNotFound(err, domain.ErrClientNotFound)
	}
	return uc.Get(ctx, p, id)
}

// mapNotFound sustituye el NotFound genérico del repositorio por el específico del recurso.
func mapNotFound(err, specific error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return specific
	}
	return err
}

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

// ProjectUseCase casos de uso para proyectos.
type ProjectUseCase struct {
	repo    repository.ProjectRepository
	clients repository.ClientRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository, clients repository.ClientRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo, clients: clients}
}

// Create crea un proyecto para un cliente activo visible. (nombre, cliente) es único en el ámbito.
func (uc *ProjectUseCase) Create(ctx context.Context, p scope.Principal, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	owner := scope.For(p)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clients.GetByID(ctx, owner, in.ClientID, scope.Active)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}
	existing, err := uc.repo.FindByNameAndClient(ctx, owner, name, client.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrProjectAlreadyExists
	}

	status := in.Status
	if status == "" {
		status = entity.ProjectPending
	}
	now := time.Now()
	project := &entity.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		ClientID:    client.ID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      status,
		Ownership:   entity.Ownership{CreatedBy: owner.UserID, CompanyID: owner.CompanyID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, project); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrProjectAlreadyExists
		}
		return nil, err
	}
	out := dto.ProjectFromEntity(project, client)
	return &out, nil
}

// Get obtiene un proyecto activo visible, con su cliente si sigue visible.
func (uc *ProjectUseCase) Get(ctx context.Context, p scope.Principal, id string) (*dto.ProjectResponse, error) {
	owner := scope.For(p)
	project, err := uc.repo.GetByID(ctx, owner, id, scope.Active)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}
	client, err := uc.clients.GetByID(ctx, owner, project.ClientID, scope.All)
	if err != nil {
		return nil, err
	}
	out := dto.ProjectFromEntity(project, client)
	return &out, nil
}

// List lista proyectos activos visibles.
func (uc *ProjectUseCase) List(ctx context.Context, p scope.Principal, q dto.ListProjectsQuery) (*dto.ProjectListResponse, error) {
	return uc.list(ctx, p, scope.Active, q)
}

// ListArchived lista proyectos archivados visibles.
func (uc *ProjectUseCase) ListArchived(ctx context.Context, p scope.Principal, q dto.ListProjectsQuery) (*dto.ProjectListResponse, error) {
	return uc.list(ctx, p, scope.Archived, q)
}

func (uc *ProjectUseCase) list(ctx context.Context, p scope.Principal, mode scope.ArchiveMode, q dto.ListProjectsQuery) (*dto.ProjectListResponse, error) {
	q.DefaultPage()
	list, err := uc.repo.List(ctx, scope.For(p), mode, repository.ProjectFilter{
		ClientID: q.ClientID,
		Status:   q.Status,
		Name:     strings.TrimSpace(q.Name),
		Page:     repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ProjectListResponse{
		Items: make([]dto.ProjectResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, pr := range list {
		out.Items = append(out.Items, dto.ProjectFromEntity(pr, nil))
	}
	return out, nil
}

// Update modifica un proyecto activo. Un cambio de cliente exige que el nuevo sea visible.
func (uc *ProjectUseCase) Update(ctx context.Context, p scope.Principal, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	owner := scope.For(p)
	project, err := uc.repo.GetByID(ctx, owner, id, scope.Active)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}

	nameOrClientChanged := false
	if in.ClientID != nil && *in.ClientID != project.ClientID {
		client, err := uc.clients.GetByID(ctx, owner, *in.ClientID, scope.Active)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrClientNotFound
		}
		project.ClientID = client.ID
		nameOrClientChanged = true
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if name != project.Name {
			project.Name = name
			nameOrClientChanged = true
		}
	}
	if nameOrClientChanged {
		other, err := uc.repo.FindByNameAndClient(ctx, owner, project.Name, project.ClientID)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != project.ID {
			return nil, domain.ErrProjectAlreadyExists
		}
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.StartDate != nil {
		project.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		project.EndDate = in.EndDate
	}
	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return nil, domain.ErrInvalidInput
	}
	if in.Status != nil {
		project.Status = *in.Status
	}
	project.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, project); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrProjectAlreadyExists
		}
		return nil, err
	}
	return uc.Get(ctx, p, project.ID)
}

// Delete archiva el proyecto, o lo elimina definitivamente si hard.
func (uc *ProjectUseCase) Delete(ctx context.Context, p scope.Principal, id string, hard bool) error {
	mode := scope.Active
	if hard {
		mode = scope.All
	}
	project, err := uc.repo.GetByID(ctx, scope.For(p), id, mode)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.ErrProjectNotFound
	}
	if err := archive.Remove(ctx, uc.repo, project.ID, hard, time.Now()); err != nil {
		return mapNotFound(err, domain.ErrProjectNotFound)
	}
	return nil
}

// Restore reactiva un proyecto archivado.
func (uc *ProjectUseCase) Restore(ctx context.Context, p scope.Principal, id string) (*dto.ProjectResponse, error) {
	owner := scope.For(p)
	project, err := uc.repo.GetByID(ctx, owner, id, scope.All)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}
	if project.Deleted {
		other, err := uc.repo.FindByNameAndClient(ctx, owner, project.Name, project.ClientID)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != project.ID {
			return nil, domain.ErrProjectAlreadyExists
		}
	}
	if err := archive.Restore(ctx, uc.repo, project.ID, project.Deleted); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrProjectAlreadyExists
		}
		return nil, mapNotFound(err, domain.ErrProjectNotFound)
	}
	return uc.Get(ctx, p, project.ID)
}

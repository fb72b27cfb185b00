package repository

import (
	"context"

	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// ProjectFilter filtros de listado de proyectos.
type ProjectFilter struct {
	ClientID string
	Status   string
	Name     string
	Page     Page
}

// ProjectRepository define el puerto de persistencia para Project.
type ProjectRepository interface {
	Archivable
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, owner scope.Owner, id string, mode scope.ArchiveMode) (*entity.Project, error)
	// FindByNameAndClient busca entre los activos visibles.
	FindByNameAndClient(ctx context.Context, owner scope.Owner, name, clientID string) (*entity.Project, error)
	List(ctx context.Context, owner scope.Owner, mode scope.ArchiveMode, f ProjectFilter) ([]*entity.Project, error)
	// ListIDsByClient ids de los proyectos visibles de un cliente en el modo dado.
	ListIDsByClient(ctx context.Context, owner scope.Owner, clientID string, mode scope.ArchiveMode) ([]string, error)
	Update(ctx context.Context, project *entity.Project) error
}

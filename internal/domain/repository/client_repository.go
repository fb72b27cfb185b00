package repository

import (
	"context"

	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// ClientFilter filtros de listado de clientes.
type ClientFilter struct {
	Name string // contiene, sin distinguir mayúsculas
	Page Page
}

// ClientRepository define el puerto de persistencia para Client.
// Todas las lecturas se evalúan dentro del predicado de propiedad recibido.
// Los métodos Get/Find devuelven (nil, nil) si no hay coincidencia.
type ClientRepository interface {
	Archivable
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, owner scope.Owner, id string, mode scope.ArchiveMode) (*entity.Client, error)
	// FindByName busca entre los activos visibles.
	FindByName(ctx context.Context, owner scope.Owner, name string) (*entity.Client, error)
	List(ctx context.Context, owner scope.Owner, mode scope.ArchiveMode, f ClientFilter) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
}

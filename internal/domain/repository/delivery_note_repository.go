package repository

import (
	"context"

	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// DeliveryNoteFilter filtros de listado de albaranes.
// ProjectIDs != nil restringe al conjunto (un conjunto vacío no devuelve nada).
type DeliveryNoteFilter struct {
	ProjectID  string
	ProjectIDs []string
	Status     string
	Page       Page
}

// DeliveryNoteRepository define el puerto de persistencia para DeliveryNote.
type DeliveryNoteRepository interface {
	Archivable
	Create(ctx context.Context, note *entity.DeliveryNote) error
	GetByID(ctx context.Context, owner scope.Owner, id string, mode scope.ArchiveMode) (*entity.DeliveryNote, error)
	List(ctx context.Context, owner scope.Owner, mode scope.ArchiveMode, f DeliveryNoteFilter) ([]*entity.DeliveryNote, error)
	Update(ctx context.Context, note *entity.DeliveryNote) error
	// MarkSigned firma un albarán activo no firmado; domain.ErrAlreadySigned si otro lo firmó antes.
	MarkSigned(ctx context.Context, id string, sig entity.Signature) error
	SetPDFURL(ctx context.Context, id, url string) error
}

// CounterRepository contador atómico de numeración por ámbito y año.
type CounterRepository interface {
	// Next devuelve el siguiente valor del contador owner.CounterKey()/year. Nunca es menor
	// o igual que una secuencia ya visible para el ámbito ni para sus miembros (notas
	// creadas antes de unirse a la compañía incluidas); el primero es 1.
	Next(ctx context.Context, owner scope.Owner, year int) (int, error)
}

package repository

import (
	"context"
	"time"
)

// Archivable capacidad de borrado lógico compartida por todos los recursos archivables.
//
//	active   --Archive--> archived
//	archived --Restore--> active
//	*        --Purge-->   purged (fila eliminada)
//
// Archive y Purge devuelven domain.ErrNotFound si la fila no existe (o ya no está en el
// estado de origen). Restore es una única actualización condicionada a deleted = true y
// devuelve domain.ErrNotArchived si la fila existe pero no estaba archivada.
type Archivable interface {
	Archive(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
}

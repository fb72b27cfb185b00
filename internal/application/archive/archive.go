// Package archive aplica las transiciones de borrado lógico sobre cualquier repository.Archivable.
package archive

import (
	"context"
	"time"

	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
)

// Remove archiva el recurso, o lo elimina definitivamente si hard.
func Remove(ctx context.Context, store repository.Archivable, id string, hard bool, at time.Time) error {
	if hard {
		return store.Purge(ctx, id)
	}
	return store.Archive(ctx, id, at)
}

// Restore reactiva un recurso archivado. deleted es el estado leído dentro del ámbito del principal.
func Restore(ctx context.Context, store repository.Archivable, id string, deleted bool) error {
	if !deleted {
		return domain.ErrNotArchived
	}
	return store.Restore(ctx, id)
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
)

var _ repository.Archivable = archiver{}

// archiver borrado lógico sobre cualquier tabla con columnas deleted/deleted_at.
// Se embebe en cada repositorio archivable.
type archiver struct {
	q     Querier
	table string
}

// Archive active -> archived.
func (a archiver) Archive(ctx context.Context, id string, at time.Time) error {
	tag, err := a.q.Exec(ctx,
		`UPDATE `+a.table+` SET deleted = TRUE, deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted = FALSE`,
		id, at)
	if err != nil {
		return fmt.Errorf("archive %s: %w", a.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Restore archived -> active en una sola sentencia condicionada a deleted = TRUE.
func (a archiver) Restore(ctx context.Context, id string) error {
	var deleted bool
	err := a.q.QueryRow(ctx,
		`UPDATE `+a.table+` SET deleted = FALSE, deleted_at = NULL, updated_at = NOW()
		 WHERE id = $1 AND deleted = TRUE RETURNING deleted`, id).Scan(&deleted)
	if err == nil {
		if deleted {
			return fmt.Errorf("restore %s: la fila sigue archivada", a.table)
		}
		return nil
	}
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("restore %s: %w", a.table, err)
	}

	var exists bool
	if err := a.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+a.table+` WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("restore %s: %w", a.table, err)
	}
	if exists {
		return domain.ErrNotArchived
	}
	return domain.ErrNotFound
}

// Purge elimina la fila en cualquier estado.
func (a archiver) Purge(ctx context.Context, id string) error {
	tag, err := a.q.Exec(ctx, `DELETE FROM `+a.table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("purge %s: %w", a.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

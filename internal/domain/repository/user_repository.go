package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get devuelven (nil, nil) si no existe.
type UserRepository interface {
	Archivable
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string, mode scope.ArchiveMode) (*entity.User, error)
	GetByEmail(ctx context.Context, email string, mode scope.ArchiveMode) (*entity.User, error)
	// GetByResetToken usuario activo con ese email y ese token vigente en now.
	GetByResetToken(ctx context.Context, email, token string, now time.Time) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

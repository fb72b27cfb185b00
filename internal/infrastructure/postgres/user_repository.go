package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, first_name, last_name, email, password_hash, role, validated, company_id,
	verification_code, verification_attempts, verification_expires_at, reset_token, reset_expires_at,
	profile_picture, deleted, deleted_at, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	archiver
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{archiver: archiver{q: q, table: "users"}, q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.Validated, nullIfEmpty(u.CompanyID),
		u.VerificationCode, u.VerificationAttempts, u.VerificationExpiresAt, u.ResetToken, u.ResetExpiresAt,
		u.ProfilePicture, u.Deleted, u.DeletedAt, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID en el modo dado.
func (r *UserRepo) GetByID(ctx context.Context, id string, mode scope.ArchiveMode) (*entity.User, error) {
	w := &where{}
	w.eq("id", id)
	w.mode(mode)
	return r.one(ctx, w)
}

// GetByEmail obtiene un usuario por email en el modo dado.
func (r *UserRepo) GetByEmail(ctx context.Context, email string, mode scope.ArchiveMode) (*entity.User, error) {
	w := &where{}
	w.eq("email", email)
	w.mode(mode)
	return r.one(ctx, w)
}

// GetByResetToken usuario activo con ese email y ese token de recuperación aún vigente.
func (r *UserRepo) GetByResetToken(ctx context.Context, email, token string, now time.Time) (*entity.User, error) {
	if email == "" || token == "" {
		return nil, nil
	}
	w := &where{}
	w.eq("email", email)
	w.eq("reset_token", token)
	w.mode(scope.Active)
	w.add("reset_expires_at > " + w.arg(now))
	return r.one(ctx, w)
}

// Update reescribe el usuario completo (salvo estado de archivo).
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET first_name = $2, last_name = $3, email = $4, password_hash = $5, role = $6,
			validated = $7, company_id = $8, verification_code = $9, verification_attempts = $10,
			verification_expires_at = $11, reset_token = $12, reset_expires_at = $13,
			profile_picture = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role,
		u.Validated, nullIfEmpty(u.CompanyID), u.VerificationCode, u.VerificationAttempts,
		u.VerificationExpiresAt, u.ResetToken, u.ResetExpiresAt,
		u.ProfilePicture, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) one(ctx context.Context, w *where) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users` + w.sql() + ` LIMIT 1`
	var u entity.User
	var companyID *string
	err := r.q.QueryRow(ctx, query, w.args...).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.Validated, &companyID,
		&u.VerificationCode, &u.VerificationAttempts, &u.VerificationExpiresAt, &u.ResetToken, &u.ResetExpiresAt,
		&u.ProfilePicture, &u.Deleted, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CompanyID = derefStr(companyID)
	return &u, nil
}

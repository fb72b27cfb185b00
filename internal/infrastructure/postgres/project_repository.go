package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

const projectColumns = `id, name, description, client_id, start_date, end_date, status,
	created_by, company_id, deleted, deleted_at, created_at, updated_at`

// ProjectRepo implementación de ProjectRepository (usable con pool o tx).
type ProjectRepo struct {
	archiver
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{archiver: archiver{q: q, table: "projects"}, q: q}
}

// Create persiste un nuevo proyecto.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.ClientID, p.StartDate, p.EndDate, p.Status,
		p.CreatedBy, nullIfEmpty(p.CompanyID), p.Deleted, p.DeletedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto visible para owner en el modo dado.
func (r *ProjectRepo) GetByID(ctx context.Context, owner scope.Owner, id string, mode scope.ArchiveMode) (*entity.Project, error) {
	w := scoped(owner, mode)
	w.eq("id", id)
	return r.one(ctx, w)
}

// FindByNameAndClient busca un proyecto activo visible por (nombre, cliente).
func (r *ProjectRepo) FindByNameAndClient(ctx context.Context, owner scope.Owner, name, clientID string) (*entity.Project, error) {
	w := scoped(owner, scope.Active)
	w.eq("name", name)
	w.eq("client_id", clientID)
	return r.one(ctx, w)
}

// List lista proyectos visibles, más recientes primero.
func (r *ProjectRepo) List(ctx context.Context, owner scope.Owner, mode scope.ArchiveMode, f repository.ProjectFilter) ([]*entity.Project, error) {
	w := scoped(owner, mode)
	if f.ClientID != "" {
		w.eq("client_id", f.ClientID)
	}
	if f.Status != "" {
		w.eq("status", f.Status)
	}
	if f.Name != "" {
		w.add("name ILIKE '%' || " + w.arg(f.Name) + " || '%'")
	}
	query := `SELECT ` + projectColumns + ` FROM projects` + w.sql() + ` ORDER BY created_at DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListIDsByClient ids de los proyectos visibles del cliente.
func (r *ProjectRepo) ListIDsByClient(ctx context.Context, owner scope.Owner, clientID string, mode scope.ArchiveMode) ([]string, error) {
	w := scoped(owner, mode)
	w.eq("client_id", clientID)
	rows, err := r.q.Query(ctx, `SELECT id FROM projects`+w.sql(), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list project ids: %w", err)
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update actualiza los campos editables de un proyecto.
func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	query := `
		UPDATE projects SET name = $2, description = $3, client_id = $4, start_date = $5,
			end_date = $6, status = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.ClientID, p.StartDate, p.EndDate, p.Status, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) one(ctx context.Context, w *where) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects` + w.sql() + ` LIMIT 1`
	p, err := scanProject(r.q.QueryRow(ctx, query, w.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func scanProject(row rowScanner) (*entity.Project, error) {
	var p entity.Project
	var companyID *string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.ClientID, &p.StartDate, &p.EndDate, &p.Status,
		&p.CreatedBy, &companyID, &p.Deleted, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CompanyID = derefStr(companyID)
	return &p, nil
}

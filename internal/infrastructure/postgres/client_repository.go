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

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, name, nif, email, phone, street, number, postal, city, province,
	created_by, company_id, deleted, deleted_at, created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	archiver
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{archiver: archiver{q: q, table: "clients"}, q: q}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.NIF, c.Email, c.Phone,
		c.Address.Street, c.Address.Number, c.Address.Postal, c.Address.City, c.Address.Province,
		c.CreatedBy, nullIfEmpty(c.CompanyID), c.Deleted, c.DeletedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente visible para owner en el modo dado.
func (r *ClientRepo) GetByID(ctx context.Context, owner scope.Owner, id string, mode scope.ArchiveMode) (*entity.Client, error) {
	w := scoped(owner, mode)
	w.eq("id", id)
	return r.one(ctx, w)
}

// FindByName busca un cliente activo visible por nombre exacto.
func (r *ClientRepo) FindByName(ctx context.Context, owner scope.Owner, name string) (*entity.Client, error) {
	w := scoped(owner, scope.Active)
	w.eq("name", name)
	return r.one(ctx, w)
}

// List lista clientes visibles, más recientes primero.
func (r *ClientRepo) List(ctx context.Context, owner scope.Owner, mode scope.ArchiveMode, f repository.ClientFilter) ([]*entity.Client, error) {
	w := scoped(owner, mode)
	if f.Name != "" {
		w.add("name ILIKE '%' || " + w.arg(f.Name) + " || '%'")
	}
	query := `SELECT ` + clientColumns + ` FROM clients` + w.sql() + ` ORDER BY created_at DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables de un cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, nif = $3, email = $4, phone = $5,
			street = $6, number = $7, postal = $8, city = $9, province = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.NIF, c.Email, c.Phone,
		c.Address.Street, c.Address.Number, c.Address.Postal, c.Address.City, c.Address.Province,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClientRepo) one(ctx context.Context, w *where) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients` + w.sql() + ` LIMIT 1`
	c, err := scanClient(r.q.QueryRow(ctx, query, w.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func scanClient(row rowScanner) (*entity.Client, error) {
	var c entity.Client
	var companyID *string
	err := row.Scan(
		&c.ID, &c.Name, &c.NIF, &c.Email, &c.Phone,
		&c.Address.Street, &c.Address.Number, &c.Address.Postal, &c.Address.City, &c.Address.Province,
		&c.CreatedBy, &companyID, &c.Deleted, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.CompanyID = derefStr(companyID)
	return &c, nil
}

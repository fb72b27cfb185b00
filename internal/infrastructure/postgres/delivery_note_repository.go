package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Albaranes-api/internal/domain"
	dnote "github.com/jhoicas/Albaranes-api/internal/domain/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

var (
	_ repository.DeliveryNoteRepository = (*DeliveryNoteRepo)(nil)
	_ repository.CounterRepository      = (*CounterRepo)(nil)
)

const deliveryNoteColumns = `id, number, project_id, date, worked_hours, materials, status,
	signature_url, signature_date, signature_signer, pdf_url, observations, total_amount,
	created_by, company_id, deleted, deleted_at, created_at, updated_at`

// workedHoursRow forma JSONB de una línea de horas.
type workedHoursRow struct {
	Person      string           `json:"person"`
	Hours       decimal.Decimal  `json:"hours"`
	Date        *time.Time       `json:"date,omitempty"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate,omitempty"`
	Description string           `json:"description,omitempty"`
}

// materialRow forma JSONB de una línea de material.
type materialRow struct {
	Name        string           `json:"name"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description string           `json:"description,omitempty"`
}

// DeliveryNoteRepo implementación de DeliveryNoteRepository (usable con pool o tx).
type DeliveryNoteRepo struct {
	archiver
	q Querier
}

// NewDeliveryNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryNoteRepository(q Querier) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{archiver: archiver{q: q, table: "delivery_notes"}, q: q}
}

// Create persiste un nuevo albarán con sus líneas.
func (r *DeliveryNoteRepo) Create(ctx context.Context, n *entity.DeliveryNote) error {
	hours, materials, err := marshalLines(n)
	if err != nil {
		return err
	}
	sigURL, sigDate, sigSigner := signatureArgs(n.Signature)
	query := `
		INSERT INTO delivery_notes (` + deliveryNoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err = r.q.Exec(ctx, query,
		n.ID, n.Number, n.ProjectID, n.Date, hours, materials, n.Status,
		sigURL, sigDate, sigSigner, n.PDFURL, n.Observations, n.TotalAmount,
		n.CreatedBy, nullIfEmpty(n.CompanyID), n.Deleted, n.DeletedAt, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert delivery note: %w", err)
	}
	return nil
}

// GetByID obtiene un albarán visible para owner en el modo dado.
func (r *DeliveryNoteRepo) GetByID(ctx context.Context, owner scope.Owner, id string, mode scope.ArchiveMode) (*entity.DeliveryNote, error) {
	w := scoped(owner, mode)
	w.eq("id", id)
	query := `SELECT ` + deliveryNoteColumns + ` FROM delivery_notes` + w.sql() + ` LIMIT 1`
	n, err := scanDeliveryNote(r.q.QueryRow(ctx, query, w.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery note: %w", err)
	}
	return n, nil
}

// List lista albaranes visibles, más recientes primero.
func (r *DeliveryNoteRepo) List(ctx context.Context, owner scope.Owner, mode scope.ArchiveMode, f repository.DeliveryNoteFilter) ([]*entity.DeliveryNote, error) {
	if f.ProjectIDs != nil && len(f.ProjectIDs) == 0 {
		return []*entity.DeliveryNote{}, nil
	}
	w := scoped(owner, mode)
	if f.ProjectID != "" {
		w.eq("project_id", f.ProjectID)
	}
	if f.ProjectIDs != nil {
		w.add("project_id = ANY(" + w.arg(f.ProjectIDs) + "::uuid[])")
	}
	if f.Status != "" {
		w.eq("status", f.Status)
	}
	query := `SELECT ` + deliveryNoteColumns + ` FROM delivery_notes` + w.sql() + ` ORDER BY created_at DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list delivery notes: %w", err)
	}
	defer rows.Close()
	var list []*entity.DeliveryNote
	for rows.Next() {
		n, err := scanDeliveryNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery note: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables. Un albarán firmado no se toca.
func (r *DeliveryNoteRepo) Update(ctx context.Context, n *entity.DeliveryNote) error {
	hours, materials, err := marshalLines(n)
	if err != nil {
		return err
	}
	query := `
		UPDATE delivery_notes SET project_id = $2, date = $3, worked_hours = $4, materials = $5,
			status = $6, observations = $7, total_amount = $8, updated_at = $9
		WHERE id = $1 AND deleted = FALSE AND status <> 'signed'`
	tag, err := r.q.Exec(ctx, query,
		n.ID, n.ProjectID, n.Date, hours, materials, n.Status, n.Observations, n.TotalAmount, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update delivery note: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	signed, err := r.activeSigned(ctx, n.ID)
	if err != nil {
		return fmt.Errorf("update delivery note: %w", err)
	}
	if signed {
		return domain.ErrCannotUpdateSigned
	}
	return domain.ErrNotFound
}

// activeSigned tras un UPDATE sin filas distingue firmado de inexistente o archivado (ErrNotFound).
func (r *DeliveryNoteRepo) activeSigned(ctx context.Context, id string) (bool, error) {
	var signed bool
	err := r.q.QueryRow(ctx, `SELECT status = 'signed' FROM delivery_notes WHERE id = $1 AND deleted = FALSE`, id).Scan(&signed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrNotFound
	}
	return signed, err
}

// MarkSigned firma un albarán activo; la condición status <> 'signed' hace que solo una firma gane.
func (r *DeliveryNoteRepo) MarkSigned(ctx context.Context, id string, sig entity.Signature) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE delivery_notes SET status = 'signed', signature_url = $2, signature_date = $3,
			signature_signer = $4, updated_at = $3
		WHERE id = $1 AND deleted = FALSE AND status <> 'signed'`,
		id, sig.ImageURL, sig.Date, sig.Signer)
	if err != nil {
		return fmt.Errorf("sign delivery note: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	signed, err := r.activeSigned(ctx, id)
	if err != nil {
		return fmt.Errorf("sign delivery note: %w", err)
	}
	if signed {
		return domain.ErrAlreadySigned
	}
	return domain.ErrNotFound
}

// SetPDFURL guarda la URL del PDF archivado.
func (r *DeliveryNoteRepo) SetPDFURL(ctx context.Context, id, url string) error {
	tag, err := r.q.Exec(ctx, `UPDATE delivery_notes SET pdf_url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("set pdf url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDeliveryNote(row rowScanner) (*entity.DeliveryNote, error) {
	var (
		n                 entity.DeliveryNote
		hours, materials  []byte
		sigURL, sigSigner *string
		sigDate           *time.Time
		companyID         *string
	)
	err := row.Scan(
		&n.ID, &n.Number, &n.ProjectID, &n.Date, &hours, &materials, &n.Status,
		&sigURL, &sigDate, &sigSigner, &n.PDFURL, &n.Observations, &n.TotalAmount,
		&n.CreatedBy, &companyID, &n.Deleted, &n.DeletedAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.CompanyID = derefStr(companyID)
	if sigURL != nil && sigDate != nil {
		n.Signature = &entity.Signature{ImageURL: *sigURL, Date: *sigDate, Signer: derefStr(sigSigner)}
	}
	if err := unmarshalLines(&n, hours, materials); err != nil {
		return nil, err
	}
	return &n, nil
}

func signatureArgs(sig *entity.Signature) (url, date, signer any) {
	if sig == nil {
		return nil, nil, nil
	}
	return sig.ImageURL, sig.Date, sig.Signer
}

func marshalLines(n *entity.DeliveryNote) ([]byte, []byte, error) {
	hours := make([]workedHoursRow, 0, len(n.WorkedHours))
	for _, h := range n.WorkedHours {
		hours = append(hours, workedHoursRow(h))
	}
	materials := make([]materialRow, 0, len(n.Materials))
	for _, m := range n.Materials {
		materials = append(materials, materialRow(m))
	}
	hb, err := json.Marshal(hours)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal worked hours: %w", err)
	}
	mb, err := json.Marshal(materials)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal materials: %w", err)
	}
	return hb, mb, nil
}

func unmarshalLines(n *entity.DeliveryNote, hours, materials []byte) error {
	var hr []workedHoursRow
	if err := json.Unmarshal(hours, &hr); err != nil {
		return fmt.Errorf("unmarshal worked hours: %w", err)
	}
	var mr []materialRow
	if err := json.Unmarshal(materials, &mr); err != nil {
		return fmt.Errorf("unmarshal materials: %w", err)
	}
	n.WorkedHours = make([]entity.WorkedHours, 0, len(hr))
	for _, h := range hr {
		n.WorkedHours = append(n.WorkedHours, entity.WorkedHours(h))
	}
	n.Materials = make([]entity.Material, 0, len(mr))
	for _, m := range mr {
		n.Materials = append(n.Materials, entity.Material(m))
	}
	return nil
}

// CounterRepo contador de numeración sobre delivery_note_counters.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Debe usarse con la tx del alta.
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// Next incrementa el contador (scope_key, year) con un upsert atómico. El valor nunca queda
// por debajo de la mayor secuencia del año ya visible en el ámbito o para sus miembros
// (p. ej. albaranes personales de quien se acaba de unir a la compañía).
func (r *CounterRepo) Next(ctx context.Context, owner scope.Owner, year int) (int, error) {
	var value int
	err := r.q.QueryRow(ctx, `
		WITH seed AS (
			SELECT COALESCE(MAX(CAST(split_part(number, '-', 3) AS INT)), 0) AS v
			FROM delivery_notes
			WHERE number LIKE $3
			  AND (created_by = $4
			       OR company_id = $5
			       OR created_by IN (SELECT id FROM users WHERE company_id = $5))
		)
		INSERT INTO delivery_note_counters (scope_key, year, value)
		SELECT $1, $2, seed.v + 1 FROM seed
		ON CONFLICT (scope_key, year) DO UPDATE
			SET value = GREATEST(delivery_note_counters.value, EXCLUDED.value - 1) + 1
		RETURNING value`,
		owner.CounterKey(), year, fmt.Sprintf("%s-%d-%%", dnote.NumberPrefix, year),
		owner.UserID, nullIfEmpty(owner.CompanyID),
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next counter: %w", err)
	}
	return value, nil
}

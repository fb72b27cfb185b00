package deliverynote

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Albaranes-api/internal/application/archive"
	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/application/ports"
	"github.com/jhoicas/Albaranes-api/internal/domain"
	dnote "github.com/jhoicas/Albaranes-api/internal/domain/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
	"github.com/jhoicas/Albaranes-api/pkg/logger"
)

// UseCase casos de uso de albaranes: alta numerada, consulta, edición, archivo, firma y PDF.
type UseCase struct {
	txRunner  TxRunner
	notes     repository.DeliveryNoteRepository
	projects  repository.ProjectRepository
	clients   repository.ClientRepository
	users     repository.UserRepository
	companies repository.CompanyRepository
	renderer  PDFRenderer
	blobs     ports.BlobStore
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
func NewUseCase(
	txRunner TxRunner,
	notes repository.DeliveryNoteRepository,
	projects repository.ProjectRepository,
	clients repository.ClientRepository,
	users repository.UserRepository,
	companies repository.CompanyRepository,
	renderer PDFRenderer,
	blobs ports.BlobStore,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		notes:     notes,
		projects:  projects,
		clients:   clients,
		users:     users,
		companies: companies,
		renderer:  renderer,
		blobs:     blobs,
		log:       log.Named("deliverynote"),
		now:       time.Now,
	}
}

// WithClock sustituye el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create crea un albarán para un proyecto activo visible. El número se asigna con el
// contador del ámbito del principal dentro de la misma transacción que el alta.
func (uc *UseCase) Create(ctx context.Context, p scope.Principal, in dto.CreateDeliveryNoteRequest) (*dto.DeliveryNoteResponse, error) {
	owner := scope.For(p)
	project, err := uc.projects.GetByID(ctx, owner, in.ProjectID, scope.Active)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}

	hours := dto.WorkedHoursToEntity(in.WorkedHours)
	materials := dto.MaterialsToEntity(in.Materials)
	if err := validateLines(hours, materials); err != nil {
		return nil, err
	}

	now := uc.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	status := in.Status
	if status == "" {
		status = entity.DeliveryNoteDraft
	}
	note := &entity.DeliveryNote{
		ID:           uuid.New().String(),
		ProjectID:    project.ID,
		Date:         date,
		WorkedHours:  hours,
		Materials:    materials,
		Status:       status,
		Observations: in.Observations,
		TotalAmount:  dnote.Total(hours, materials),
		Ownership:    entity.Ownership{CreatedBy: owner.UserID, CompanyID: owner.CompanyID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunNumbering(ctx, func(counters repository.CounterRepository, notes repository.DeliveryNoteRepository) error {
		seq, err := counters.Next(ctx, owner, now.Year())
		if err != nil {
			return err
		}
		note.Number = dnote.FormatNumber(now.Year(), seq)
		return notes.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	return uc.toResponse(ctx, owner, note)
}

// Get obtiene un albarán activo visible, con su proyecto y cliente.
func (uc *UseCase) Get(ctx context.Context, p scope.Principal, id string) (*dto.DeliveryNoteResponse, error) {
	owner := scope.For(p)
	note, err := uc.notes.GetByID(ctx, owner, id, scope.Active)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrDeliveryNoteNotFound
	}
	return uc.toResponse(ctx, owner, note)
}

// List lista albaranes activos visibles.
func (uc *UseCase) List(ctx context.Context, p scope.Principal, q dto.ListDeliveryNotesQuery) (*dto.DeliveryNoteListResponse, error) {
	return uc.list(ctx, p, scope.Active, q)
}

// ListArchived lista albaranes archivados visibles.
func (uc *UseCase) ListArchived(ctx context.Context, p scope.Principal, q dto.ListDeliveryNotesQuery) (*dto.DeliveryNoteListResponse, error) {
	return uc.list(ctx, p, scope.Archived, q)
}

func (uc *UseCase) list(ctx context.Context, p scope.Principal, mode scope.ArchiveMode, q dto.ListDeliveryNotesQuery) (*dto.DeliveryNoteListResponse, error) {
	q.DefaultPage()
	owner := scope.For(p)
	out := &dto.DeliveryNoteListResponse{
		Items: []dto.DeliveryNoteResponse{},
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}

	filter := repository.DeliveryNoteFilter{
		ProjectID: q.ProjectID,
		Status:    q.Status,
		Page:      repository.Page{Limit: q.Limit, Offset: q.Offset},
	}
	if q.ClientID != "" {
		// cliente -> proyectos visibles -> albaranes de esos proyectos
		projectMode := scope.Active
		if mode != scope.Active {
			projectMode = scope.All
		}
		ids, err := uc.projects.ListIDsByClient(ctx, owner, q.ClientID, projectMode)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return out, nil
		}
		filter.ProjectIDs = ids
	}

	list, err := uc.notes.List(ctx, owner, mode, filter)
	if err != nil {
		return nil, err
	}
	out.Items = make([]dto.DeliveryNoteResponse, 0, len(list))
	for _, n := range list {
		out.Items = append(out.Items, dto.DeliveryNoteFromEntity(n, nil))
	}
	return out, nil
}

// Update modifica un albarán activo no firmado. Si llegan líneas se recalcula el total.
func (uc *UseCase) Update(ctx context.Context, p scope.Principal, id string, in dto.UpdateDeliveryNoteRequest) (*dto.DeliveryNoteResponse, error) {
	owner := scope.For(p)
	note, err := uc.notes.GetByID(ctx, owner, id, scope.Active)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrDeliveryNoteNotFound
	}
	if note.IsSigned() {
		return nil, domain.ErrCannotUpdateSigned
	}

	if in.ProjectID != nil && *in.ProjectID != note.ProjectID {
		project, err := uc.projects.GetByID(ctx, owner, *in.ProjectID, scope.Active)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, domain.ErrProjectNotFound
		}
		note.ProjectID = project.ID
	}

	recompute := false
	if in.WorkedHours != nil {
		note.WorkedHours = dto.WorkedHoursToEntity(*in.WorkedHours)
		recompute = true
	}
	if in.Materials != nil {
		note.Materials = dto.MaterialsToEntity(*in.Materials)
		recompute = true
	}
	if recompute {
		if err := validateLines(note.WorkedHours, note.Materials); err != nil {
			return nil, err
		}
		note.TotalAmount = dnote.Total(note.WorkedHours, note.Materials)
	}
	if in.Date != nil {
		note.Date = *in.Date
	}
	if in.Observations != nil {
		note.Observations = *in.Observations
	}
	if in.Status != nil {
		note.Status = *in.Status
	}
	note.UpdatedAt = uc.now()

	if err := uc.notes.Update(ctx, note); err != nil {
		return nil, mapNotFound(err)
	}
	return uc.toResponse(ctx, owner, note)
}

// Delete archiva el albarán (no permitido si está firmado) o lo elimina definitivamente si hard.
func (uc *UseCase) Delete(ctx context.Context, p scope.Principal, id string, hard bool) error {
	mode := scope.Active
	if hard {
		mode = scope.All
	}
	note, err := uc.notes.GetByID(ctx, scope.For(p), id, mode)
	if err != nil {
		return err
	}
	if note == nil {
		return domain.ErrDeliveryNoteNotFound
	}
	if !hard && note.IsSigned() {
		return domain.ErrCannotDeleteSigned
	}
	return mapNotFound(archive.Remove(ctx, uc.notes, note.ID, hard, uc.now()))
}

// Restore reactiva un albarán archivado.
func (uc *UseCase) Restore(ctx context.Context, p scope.Principal, id string) (*dto.DeliveryNoteResponse, error) {
	owner := scope.For(p)
	note, err := uc.notes.GetByID(ctx, owner, id, scope.All)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrDeliveryNoteNotFound
	}
	if err := archive.Restore(ctx, uc.notes, note.ID, note.Deleted); err != nil {
		return nil, mapNotFound(err)
	}
	return uc.Get(ctx, p, note.ID)
}

// toResponse añade el proyecto (y su cliente) si siguen visibles, archivados incluidos.
func (uc *UseCase) toResponse(ctx context.Context, owner scope.Owner, note *entity.DeliveryNote) (*dto.DeliveryNoteResponse, error) {
	project, err := uc.projects.GetByID(ctx, owner, note.ProjectID, scope.All)
	if err != nil {
		return nil, err
	}
	var pr *dto.ProjectResponse
	if project != nil {
		client, err := uc.clients.GetByID(ctx, owner, project.ClientID, scope.All)
		if err != nil {
			return nil, err
		}
		resp := dto.ProjectFromEntity(project, client)
		pr = &resp
	}
	out := dto.DeliveryNoteFromEntity(note, pr)
	return &out, nil
}

func validateLines(hours []entity.WorkedHours, materials []entity.Material) error {
	for _, h := range hours {
		if h.Hours.IsNegative() || (h.HourlyRate != nil && h.HourlyRate.IsNegative()) {
			return domain.ErrInvalidInput
		}
	}
	for _, m := range materials {
		if m.Quantity.IsNegative() || (m.Price != nil && m.Price.IsNegative()) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrDeliveryNoteNotFound
	}
	return err
}

package memory

import (
	"context"
	"strconv"
	"time"

	"github.com/jhoicas/Albaranes-api/internal/domain"
	dnote "github.com/jhoicas/Albaranes-api/internal/domain/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

var (
	_ repository.ClientRepository       = (*ClientRepo)(nil)
	_ repository.ProjectRepository      = (*ProjectRepo)(nil)
	_ repository.DeliveryNoteRepository = (*DeliveryNoteRepo)(nil)
	_ repository.CounterRepository      = (*CounterRepo)(nil)
)

// ClientRepo implementación en memoria de ClientRepository.
type ClientRepo struct {
	s *Store
	archiver[entity.Client]
}

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.clients[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, owner scope.Owner, id string, mode scope.ArchiveMode) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.st.clients[id]
	if !ok || !owner.Matches(c.CreatedBy, c.CompanyID) || !mode.Matches(c.Deleted) {
		return nil, nil
	}
	return &c, nil
}

func (r *ClientRepo) FindByName(_ context.Context, owner scope.Owner, name string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.st.clients {
		if c.Name == name && !c.Deleted && owner.Matches(c.CreatedBy, c.CompanyID) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ClientRepo) List(_ context.Context, owner scope.Owner, mode scope.ArchiveMode, f repository.ClientFilter) ([]*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Client
	for _, c := range r.s.st.clients {
		if !owner.Matches(c.CreatedBy, c.CompanyID) || !mode.Matches(c.Deleted) {
			continue
		}
		if f.Name != "" && !containsFold(c.Name, f.Name) {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sortByCreated(list, func(c *entity.Client) time.Time { return c.CreatedAt }, func(c *entity.Client) string { return c.ID })
	return paginate(list, f.Page), nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.clients[c.ID] = *c
	return nil
}

// ProjectRepo implementación en memoria de ProjectRepository.
type ProjectRepo struct {
	s *Store
	archiver[entity.Project]
}

func (r *ProjectRepo) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.projects[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.projects[p.ID] = *p
	return nil
}

func (r *ProjectRepo) GetByID(_ context.Context, owner scope.Owner, id string, mode scope.ArchiveMode) (*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.st.projects[id]
	if !ok || !owner.Matches(p.CreatedBy, p.CompanyID) || !mode.Matches(p.Deleted) {
		return nil, nil
	}
	return &p, nil
}

func (r *ProjectRepo) FindByNameAndClient(_ context.Context, owner scope.Owner, name, clientID string) (*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.st.projects {
		if p.Name == name && p.ClientID == clientID && !p.Deleted && owner.Matches(p.CreatedBy, p.CompanyID) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProjectRepo) List(_ context.Context, owner scope.Owner, mode scope.ArchiveMode, f repository.ProjectFilter) ([]*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Project
	for _, p := range r.s.st.projects {
		if !owner.Matches(p.CreatedBy, p.CompanyID) || !mode.Matches(p.Deleted) {
			continue
		}
		if f.ClientID != "" && p.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Name != "" && !containsFold(p.Name, f.Name) {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sortByCreated(list, func(p *entity.Project) time.Time { return p.CreatedAt }, func(p *entity.Project) string { return p.ID })
	return paginate(list, f.Page), nil
}

func (r *ProjectRepo) ListIDsByClient(_ context.Context, owner scope.Owner, clientID string, mode scope.ArchiveMode) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for _, p := range r.s.st.projects {
		if p.ClientID == clientID && mode.Matches(p.Deleted) && owner.Matches(p.CreatedBy, p.CompanyID) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (r *ProjectRepo) Update(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.projects[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.projects[p.ID] = *p
	return nil
}

// DeliveryNoteRepo implementación en memoria de DeliveryNoteRepository.
type DeliveryNoteRepo struct {
	s *Store
	archiver[entity.DeliveryNote]
}

func (r *DeliveryNoteRepo) Create(_ context.Context, n *entity.DeliveryNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.notes[n.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.notes[n.ID] = cloneNote(*n)
	return nil
}

func (r *DeliveryNoteRepo) GetByID(_ context.Context, owner scope.Owner, id string, mode scope.ArchiveMode) (*entity.DeliveryNote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.st.notes[id]
	if !ok || !owner.Matches(n.CreatedBy, n.CompanyID) || !mode.Matches(n.Deleted) {
		return nil, nil
	}
	n = cloneNote(n)
	return &n, nil
}

func (r *DeliveryNoteRepo) List(_ context.Context, owner scope.Owner, mode scope.ArchiveMode, f repository.DeliveryNoteFilter) ([]*entity.DeliveryNote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var inSet map[string]bool
	if f.ProjectIDs != nil {
		if len(f.ProjectIDs) == 0 {
			return nil, nil
		}
		inSet = make(map[string]bool, len(f.ProjectIDs))
		for _, id := range f.ProjectIDs {
			inSet[id] = true
		}
	}
	var list []*entity.DeliveryNote
	for _, n := range r.s.st.notes {
		if !owner.Matches(n.CreatedBy, n.CompanyID) || !mode.Matches(n.Deleted) {
			continue
		}
		if f.ProjectID != "" && n.ProjectID != f.ProjectID {
			continue
		}
		if inSet != nil && !inSet[n.ProjectID] {
			continue
		}
		if f.Status != "" && n.Status != f.Status {
			continue
		}
		n := cloneNote(n)
		list = append(list, &n)
	}
	sortByCreated(list, func(n *entity.DeliveryNote) time.Time { return n.CreatedAt }, func(n *entity.DeliveryNote) string { return n.ID })
	return paginate(list, f.Page), nil
}

func (r *DeliveryNoteRepo) Update(_ context.Context, n *entity.DeliveryNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.notes[n.ID]
	if !ok || cur.Deleted {
		return domain.ErrNotFound
	}
	if cur.IsSigned() {
		return domain.ErrCannotUpdateSigned
	}
	r.s.st.notes[n.ID] = cloneNote(*n)
	return nil
}

func (r *DeliveryNoteRepo) MarkSigned(_ context.Context, id string, sig entity.Signature) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.st.notes[id]
	if !ok || n.Deleted {
		return domain.ErrNotFound
	}
	if n.IsSigned() {
		return domain.ErrAlreadySigned
	}
	n.Status = entity.DeliveryNoteSigned
	n.Signature = &sig
	n.UpdatedAt = sig.Date
	r.s.st.notes[id] = n
	return nil
}

func (r *DeliveryNoteRepo) SetPDFURL(_ context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.st.notes[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.PDFURL = url
	r.s.st.notes[id] = n
	return nil
}

// CounterRepo contadores de numeración en memoria.
type CounterRepo struct {
	s *Store
}

func (r *CounterRepo) Next(_ context.Context, owner scope.Owner, year int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := counterKey(owner.CounterKey(), year)
	next := max(r.s.st.counters[k], r.highestVisible(owner, year)) + 1
	r.s.st.counters[k] = next
	return next, nil
}

// highestVisible mayor secuencia del año entre los albaranes (archivados incluidos) del
// ámbito del owner y de los miembros de su compañía. Requiere r.s.mu.
func (r *CounterRepo) highestVisible(owner scope.Owner, year int) int {
	members := map[string]bool{owner.UserID: true}
	if owner.CompanyID != "" {
		for id, u := range r.s.st.users {
			if u.CompanyID == owner.CompanyID {
				members[id] = true
			}
		}
	}
	highest := 0
	for _, n := range r.s.st.notes {
		if !members[n.CreatedBy] && (owner.CompanyID == "" || n.CompanyID != owner.CompanyID) {
			continue
		}
		if seq, ok := dnote.ParseSequence(n.Number, year); ok && seq > highest {
			highest = seq
		}
	}
	return highest
}

func counterKey(key string, year int) string {
	return key + "/" + strconv.Itoa(year)
}

func cloneNote(n entity.DeliveryNote) entity.DeliveryNote {
	n.WorkedHours = append([]entity.WorkedHours(nil), n.WorkedHours...)
	n.Materials = append([]entity.Material(nil), n.Materials...)
	if n.Signature != nil {
		sig := *n.Signature
		n.Signature = &sig
	}
	return n
}

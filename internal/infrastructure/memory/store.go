// Package memory implementa los repositorios sobre mapas en memoria protegidos por mutex.
// Se usa con DB_DRIVER=memory y en los tests de casos de uso; el estado se pierde al reiniciar.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Albaranes-api/internal/application/auth"
	"github.com/jhoicas/Albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
)

type state struct {
	clients     map[string]entity.Client
	projects    map[string]entity.Project
	notes       map[string]entity.DeliveryNote
	users       map[string]entity.User
	companies   map[string]entity.Company
	invitations map[string]entity.Invitation
	counters    map[string]int
}

func newState() state {
	return state{
		clients:     map[string]entity.Client{},
		projects:    map[string]entity.Project{},
		notes:       map[string]entity.DeliveryNote{},
		users:       map[string]entity.User{},
		companies:   map[string]entity.Company{},
		invitations: map[string]entity.Invitation{},
		counters:    map[string]int{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.projects {
		c.projects[k] = v
	}
	for k, v := range s.notes {
		c.notes[k] = cloneNote(v)
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.invitations {
		c.invitations[k] = v
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	return c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Clients repositorio de clientes.
func (s *Store) Clients() *ClientRepo {
	return &ClientRepo{s: s, archiver: archiveIn(s,
		func(st *state) map[string]entity.Client { return st.clients },
		func(c *entity.Client) *entity.Archive { return &c.Archive })}
}

// Projects repositorio de proyectos.
func (s *Store) Projects() *ProjectRepo {
	return &ProjectRepo{s: s, archiver: archiveIn(s,
		func(st *state) map[string]entity.Project { return st.projects },
		func(p *entity.Project) *entity.Archive { return &p.Archive })}
}

// DeliveryNotes repositorio de albaranes.
func (s *Store) DeliveryNotes() *DeliveryNoteRepo {
	return &DeliveryNoteRepo{s: s, archiver: archiveIn(s,
		func(st *state) map[string]entity.DeliveryNote { return st.notes },
		func(n *entity.DeliveryNote) *entity.Archive { return &n.Archive })}
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo {
	return &UserRepo{s: s, archiver: archiveIn(s,
		func(st *state) map[string]entity.User { return st.users },
		func(u *entity.User) *entity.Archive { return &u.Archive })}
}

// Counters contadores de numeración.
func (s *Store) Counters() *CounterRepo { return &CounterRepo{s: s} }

// Companies repositorio de compañías.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }

// Invitations repositorio de invitaciones.
func (s *Store) Invitations() *InvitationRepo { return &InvitationRepo{s: s} }

var (
	_ deliverynote.TxRunner = (*Store)(nil)
	_ auth.TxRunner         = (*Store)(nil)
)

// RunNumbering serializa las transacciones y deshace los cambios si fn falla.
func (s *Store) RunNumbering(ctx context.Context, fn func(repository.CounterRepository, repository.DeliveryNoteRepository) error) error {
	return s.run(func() error { return fn(s.Counters(), s.DeliveryNotes()) })
}

// RunAuth serializa las transacciones y deshace los cambios si fn falla.
func (s *Store) RunAuth(ctx context.Context, fn func(repository.UserRepository, repository.CompanyRepository, repository.InvitationRepository) error) error {
	return s.run(func() error { return fn(s.Users(), s.Companies(), s.Invitations()) })
}

func (s *Store) run(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// archiveIn aplica las transiciones de borrado lógico sobre un mapa de recursos.
func archiveIn[T any](s *Store, pick func(*state) map[string]T, get func(*T) *entity.Archive) archiver[T] {
	return archiver[T]{s: s, pick: pick, get: get}
}

type archiver[T any] struct {
	s    *Store
	pick func(*state) map[string]T
	get  func(*T) *entity.Archive
}

func (a archiver[T]) Archive(_ context.Context, id string, at time.Time) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	m := a.pick(&a.s.st)
	v, ok := m[id]
	if !ok || a.get(&v).Deleted {
		return domain.ErrNotFound
	}
	ar := a.get(&v)
	ar.Deleted = true
	ar.DeletedAt = &at
	m[id] = v
	return nil
}

func (a archiver[T]) Restore(_ context.Context, id string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	m := a.pick(&a.s.st)
	v, ok := m[id]
	if !ok {
		return domain.ErrNotFound
	}
	ar := a.get(&v)
	if !ar.Deleted {
		return domain.ErrNotArchived
	}
	ar.Deleted = false
	ar.DeletedAt = nil
	m[id] = v
	return nil
}

func (a archiver[T]) Purge(_ context.Context, id string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	m := a.pick(&a.s.st)
	if _, ok := m[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m, id)
	return nil
}

// paginate aplica limit/offset sobre una lista ya ordenada.
func paginate[T any](list []T, p repository.Page) []T {
	if p.Offset > 0 {
		if p.Offset >= len(list) {
			return list[:0]
		}
		list = list[p.Offset:]
	}
	if p.Limit > 0 && len(list) > p.Limit {
		list = list[:p.Limit]
	}
	return list
}

func sortByCreated[T any](list []*T, created func(*T) time.Time, id func(*T) string) {
	sort.Slice(list, func(i, j int) bool {
		ci, cj := created(list[i]), created(list[j])
		if ci.Equal(cj) {
			return id(list[i]) < id(list[j])
		}
		return ci.After(cj)
	})
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

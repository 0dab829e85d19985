// Package memory is an in-memory reference implementation of
// storage.Store, used in tests and as the default backend when no
// database path is configured.
package memory

import (
	"context"
	"sync"

	"github.com/camgitt/grace-crm-sub003/model"
	"github.com/camgitt/grace-crm-sub003/rsvp"
	"github.com/camgitt/grace-crm-sub003/storage"
)

// Store implements storage.Store with RWMutex-guarded maps.
type Store struct {
	mu     sync.RWMutex
	events map[string]model.Event
	people map[string]model.Person
	rsvps  map[string][]model.RSVP
	tasks  map[string]model.Task
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		events: make(map[string]model.Event),
		people: make(map[string]model.Person),
		rsvps:  make(map[string][]model.RSVP),
		tasks:  make(map[string]model.Task),
	}
}

// Event operations

func (s *Store) ListEvents(_ context.Context) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev)
	}
	return out, nil
}

func (s *Store) GetEvent(_ context.Context, id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &ev, nil
}

func (s *Store) PutEvent(_ context.Context, ev model.Event) error {
	if ev.ID == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.ID] = ev
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

// Person operations

func (s *Store) ListPeople(_ context.Context) ([]model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Person, 0, len(s.people))
	for _, p := range s.people {
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) GetPerson(_ context.Context, id string) (*model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.people[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *Store) PutPerson(_ context.Context, p model.Person) error {
	if p.ID == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.people[p.ID] = p
	return nil
}

func (s *Store) DeletePerson(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.people, id)
	return nil
}

// RSVP operations

func (s *Store) ListRSVPs(_ context.Context, eventID string) ([]model.RSVP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.rsvps[eventID]
	out := make([]model.RSVP, len(stored))
	copy(out, stored)
	return out, nil
}

// PutRSVP replaces any earlier response from the same person for the same
// event.
func (s *Store) PutRSVP(_ context.Context, r model.RSVP) error {
	if r.EventID == "" || r.PersonID == "" || !r.Response.Valid() || r.Guests < 0 {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rsvps[r.EventID] = rsvp.Upsert(s.rsvps[r.EventID], r)
	return nil
}

// Task operations

func (s *Store) ListTasks(_ context.Context) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) GetTask(_ context.Context, id string) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &t, nil
}

func (s *Store) PutTask(_ context.Context, t model.Task) error {
	if t.ID == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[t.ID] = t
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// Package storage defines the store interfaces the calendar engine reads
// from and the serving layer writes to. Implementations live in the
// memory and sqlite subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/camgitt/grace-crm-sub003/model"
)

var (
	// ErrNotFound is returned when a requested record doesn't exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidInput is returned when a record fails boundary validation.
	ErrInvalidInput = errors.New("invalid input")
)

// EventStore manages calendar events.
type EventStore interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	PutEvent(ctx context.Context, ev model.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

// PersonStore manages the member records the engine derives occurrences
// from.
type PersonStore interface {
	ListPeople(ctx context.Context) ([]model.Person, error)
	GetPerson(ctx context.Context, id string) (*model.Person, error)
	PutPerson(ctx context.Context, p model.Person) error
	DeletePerson(ctx context.Context, id string) error
}

// RSVPStore manages attendance responses. PutRSVP is an upsert with
// last-write-wins semantics on the (event, person) pair; no history is
// kept.
type RSVPStore interface {
	ListRSVPs(ctx context.Context, eventID string) ([]model.RSVP, error)
	PutRSVP(ctx context.Context, r model.RSVP) error
}

// TaskStore manages follow-up tasks. Completed instances are never
// deleted; chains grow by insertion only.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	PutTask(ctx context.Context, t model.Task) error
}

// Store is the full persistence surface.
type Store interface {
	EventStore
	PersonStore
	RSVPStore
	TaskStore
	Close() error
}

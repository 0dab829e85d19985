// Package sqlite implements storage.Store over a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/mo"

	"github.com/camgitt/grace-crm-sub003/dates"
	"github.com/camgitt/grace-crm-sub003/model"
	"github.com/camgitt/grace-crm-sub003/recurrence"
	"github.com/camgitt/grace-crm-sub003/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	start        TEXT NOT NULL,
	end_at       TEXT,
	all_day      INTEGER NOT NULL DEFAULT 0,
	location     TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT 'other',
	repeat       TEXT NOT NULL DEFAULT 'none',
	repeat_until TEXT
);

CREATE TABLE IF NOT EXISTS people (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	birthday  TEXT,
	joined_on TEXT
);

CREATE TABLE IF NOT EXISTS rsvps (
	event_id  TEXT NOT NULL,
	person_id TEXT NOT NULL,
	response  TEXT NOT NULL,
	guests    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (event_id, person_id)
);

CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	priority     TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT '',
	person_id    TEXT NOT NULL DEFAULT '',
	due_date     TEXT NOT NULL,
	completed    INTEGER NOT NULL DEFAULT 0,
	recurrence   TEXT NOT NULL DEFAULT 'none',
	root_task_id TEXT
);
`

// Store implements storage.Store over SQLite.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite file at path, creating the directory and
// schema as needed. WAL mode allows concurrent reads from the serving
// layer.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Event operations

const eventColumns = "id, title, description, start, end_at, all_day, location, category, repeat, repeat_until"

func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+eventColumns+" FROM events ORDER BY start")
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Store) PutEvent(ctx context.Context, ev model.Event) error {
	if ev.ID == "" {
		return storage.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, description = excluded.description,
			start = excluded.start, end_at = excluded.end_at,
			all_day = excluded.all_day, location = excluded.location,
			category = excluded.category, repeat = excluded.repeat,
			repeat_until = excluded.repeat_until`,
		ev.ID, ev.Title, ev.Description,
		ev.Start.UTC().Format(time.RFC3339),
		nullTime(ev.End), ev.AllDay, ev.Location,
		string(ev.Category), string(ev.Repeat), nullDate(ev.RepeatUntil))
	if err != nil {
		return fmt.Errorf("storing event %s: %w", ev.ID, err)
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	return requireAffected(res)
}

// Person operations

func (s *Store) ListPeople(ctx context.Context) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, birthday, joined_on FROM people ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing people: %w", err)
	}
	defer rows.Close()

	var out []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPerson(ctx context.Context, id string) (*model.Person, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, birthday, joined_on FROM people WHERE id = ?", id)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) PutPerson(ctx context.Context, p model.Person) error {
	if p.ID == "" {
		return storage.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO people (id, name, birthday, joined_on) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, birthday = excluded.birthday,
			joined_on = excluded.joined_on`,
		p.ID, p.Name, nullDate(p.Birthday), nullDate(p.JoinedOn))
	if err != nil {
		return fmt.Errorf("storing person %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) DeletePerson(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM people WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting person %s: %w", id, err)
	}
	return requireAffected(res)
}

// RSVP operations

func (s *Store) ListRSVPs(ctx context.Context, eventID string) ([]model.RSVP, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT event_id, person_id, response, guests FROM rsvps WHERE event_id = ?", eventID)
	if err != nil {
		return nil, fmt.Errorf("listing rsvps for event %s: %w", eventID, err)
	}
	defer rows.Close()

	var out []model.RSVP
	for rows.Next() {
		var r model.RSVP
		var response string
		if err := rows.Scan(&r.EventID, &r.PersonID, &response, &r.Guests); err != nil {
			return nil, fmt.Errorf("scanning rsvp: %w", err)
		}
		r.Response = model.Response(response)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) PutRSVP(ctx context.Context, r model.RSVP) error {
	if r.EventID == "" || r.PersonID == "" || !r.Response.Valid() || r.Guests < 0 {
		return storage.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rsvps (event_id, person_id, response, guests) VALUES (?, ?, ?, ?)
		ON CONFLICT(event_id, person_id) DO UPDATE SET
			response = excluded.response, guests = excluded.guests`,
		r.EventID, r.PersonID, string(r.Response), r.Guests)
	if err != nil {
		return fmt.Errorf("storing rsvp: %w", err)
	}
	return nil
}

// Task operations

const taskColumns = "id, title, description, priority, category, person_id, due_date, completed, recurrence, root_task_id"

func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY due_date")
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var out []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) PutTask(ctx context.Context, t model.Task) error {
	if t.ID == "" {
		return storage.ErrInvalidInput
	}
	var root sql.NullString
	if r, ok := t.RootTaskID.Get(); ok {
		root = sql.NullString{String: r, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, description = excluded.description,
			priority = excluded.priority, category = excluded.category,
			person_id = excluded.person_id, due_date = excluded.due_date,
			completed = excluded.completed, recurrence = excluded.recurrence,
			root_task_id = excluded.root_task_id`,
		t.ID, t.Title, t.Description, t.Priority, t.Category, t.PersonID,
		t.DueDate.String(), t.Completed, string(t.Recurrence), root)
	if err != nil {
		return fmt.Errorf("storing task %s: %w", t.ID, err)
	}
	return nil
}

// Scan helpers. Date and time parsing happens here, at the boundary:
// a malformed stored value surfaces as a descriptive validation error
// instead of propagating a corrupt date into the engine.

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (model.Event, error) {
	var ev model.Event
	var start string
	var end, repeatUntil sql.NullString
	var category, repeat string
	if err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &start, &end,
		&ev.AllDay, &ev.Location, &category, &repeat, &repeatUntil); err != nil {
		return ev, err
	}

	startAt, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return ev, fmt.Errorf("event %s has invalid start %q: %w", ev.ID, start, storage.ErrInvalidInput)
	}
	ev.Start = startAt

	if end.Valid {
		endAt, err := time.Parse(time.RFC3339, end.String)
		if err != nil {
			return ev, fmt.Errorf("event %s has invalid end %q: %w", ev.ID, end.String, storage.ErrInvalidInput)
		}
		ev.End = mo.Some(endAt)
	}
	if repeatUntil.Valid {
		until, err := dates.Parse(repeatUntil.String)
		if err != nil {
			return ev, fmt.Errorf("event %s has invalid repeat_until %q: %w", ev.ID, repeatUntil.String, storage.ErrInvalidInput)
		}
		ev.RepeatUntil = mo.Some(until)
	}

	ev.Category = model.Category(category)
	ev.Repeat = recurrence.ParseFrequency(repeat)
	return ev, nil
}

func scanPerson(row scanner) (model.Person, error) {
	var p model.Person
	var birthday, joined sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &birthday, &joined); err != nil {
		return p, err
	}

	if birthday.Valid {
		d, err := dates.Parse(birthday.String)
		if err != nil {
			return p, fmt.Errorf("person %s has invalid birthday %q: %w", p.ID, birthday.String, storage.ErrInvalidInput)
		}
		p.Birthday = mo.Some(d)
	}
	if joined.Valid {
		d, err := dates.Parse(joined.String)
		if err != nil {
			return p, fmt.Errorf("person %s has invalid joined_on %q: %w", p.ID, joined.String, storage.ErrInvalidInput)
		}
		p.JoinedOn = mo.Some(d)
	}
	return p, nil
}

func scanTask(row scanner) (model.Task, error) {
	var t model.Task
	var due, freq string
	var root sql.NullString
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Category,
		&t.PersonID, &due, &t.Completed, &freq, &root); err != nil {
		return t, err
	}

	d, err := dates.Parse(due)
	if err != nil {
		return t, fmt.Errorf("task %s has invalid due_date %q: %w", t.ID, due, storage.ErrInvalidInput)
	}
	t.DueDate = d
	t.Recurrence = recurrence.ParseFrequency(freq)
	if root.Valid {
		t.RootTaskID = mo.Some(root.String)
	}
	return t, nil
}

func nullTime(o mo.Option[time.Time]) sql.NullString {
	if t, ok := o.Get(); ok {
		return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
	}
	return sql.NullString{}
}

func nullDate(o mo.Option[dates.Date]) sql.NullString {
	if d, ok := o.Get(); ok {
		return sql.NullString{String: d.String(), Valid: true}
	}
	return sql.NullString{}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

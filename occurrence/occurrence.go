// Package occurrence aggregates explicit events and recurring personal
// dates (birthdays, membership anniversaries) into date-indexed views.
package occurrence

import (
	"fmt"
	"sort"

	"github.com/camgitt/grace-crm-sub003/dates"
	"github.com/camgitt/grace-crm-sub003/model"
)

// Kind tags a derived personal occurrence.
type Kind string

const (
	KindBirthday    Kind = "birthday"
	KindAnniversary Kind = "anniversary"
)

// RolloverPolicy controls what happens to a derived occurrence whose
// same-year date has already passed the reference date.
//
// The month grid always shows the current year's date (CalendarYear); the
// upcoming list rolls the date forward to its next occurrence
// (NextOccurrence). The two views intentionally diverge.
type RolloverPolicy string

const (
	CalendarYear   RolloverPolicy = "calendar-year"
	NextOccurrence RolloverPolicy = "next-occurrence"
)

// Derived is a same-year projection of a recurring personal date.
type Derived struct {
	Kind   Kind         `json:"kind"`
	Person model.Person `json:"person"`
	// Date is the concrete calendar date in the projection year.
	Date dates.Date `json:"date"`
	// Years is the age being turned, or years since joining.
	Years int `json:"years"`
}

// Label renders the magnitude for display: "Turns 35" for birthdays,
// "5 years" for anniversaries.
func (d Derived) Label() string {
	if d.Kind == KindBirthday {
		return fmt.Sprintf("Turns %d", d.Years)
	}
	if d.Years == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", d.Years)
}

// Project applies a rollover policy relative to reference. Under
// CalendarYear the occurrence is returned unchanged. Under NextOccurrence
// a date already past the reference moves one year forward and the
// magnitude is recomputed for the new year.
func (d Derived) Project(policy RolloverPolicy, reference dates.Date) Derived {
	if policy != NextOccurrence || !d.Date.Before(reference) {
		return d
	}
	rolled := d
	rolled.Date = d.Date.WithYear(d.Date.Year + 1)
	rolled.Years = d.Years + 1
	return rolled
}

// Birthdays derives one occurrence per person with a known birth date,
// projected onto referenceYear. People without a birth date are skipped.
func Birthdays(people []model.Person, referenceYear int) []Derived {
	var out []Derived
	for _, p := range people {
		birth, ok := p.Birthday.Get()
		if !ok {
			continue
		}
		out = append(out, Derived{
			Kind:   KindBirthday,
			Person: p,
			Date:   birth.WithYear(referenceYear),
			Years:  referenceYear - birth.Year,
		})
	}
	return out
}

// Anniversaries derives one occurrence per person with a known join date.
// Zero and negative year counts are omitted; nobody celebrates a 0-year
// anniversary.
func Anniversaries(people []model.Person, referenceYear int) []Derived {
	var out []Derived
	for _, p := range people {
		joined, ok := p.JoinedOn.Get()
		if !ok {
			continue
		}
		years := referenceYear - joined.Year
		if years <= 0 {
			continue
		}
		out = append(out, Derived{
			Kind:   KindAnniversary,
			Person: p,
			Date:   joined.WithYear(referenceYear),
			Years:  years,
		})
	}
	return out
}

// Filter selects which items participate in aggregation. It is applied
// before bucketing and before the upcoming projection, so reported counts
// always reflect the filtered set.
type Filter struct {
	// Categories limits events to the listed categories; empty means all.
	Categories []model.Category
	// Visibility toggles per item kind.
	ShowEvents        bool
	ShowBirthdays     bool
	ShowAnniversaries bool
}

// ShowAll is the default filter: everything visible.
var ShowAll = Filter{ShowEvents: true, ShowBirthdays: true, ShowAnniversaries: true}

func (f Filter) allowsCategory(c model.Category) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, allowed := range f.Categories {
		if c == allowed {
			return true
		}
	}
	return false
}

// Events returns the events that pass the filter.
func (f Filter) Events(events []model.Event) []model.Event {
	if !f.ShowEvents {
		return nil
	}
	var out []model.Event
	for _, ev := range events {
		if f.allowsCategory(ev.Category) {
			out = append(out, ev)
		}
	}
	return out
}

// displayCap limits how many entries a single grid cell shows before
// collapsing into an overflow count.
const displayCap = 3

// DayBucket collects everything that falls on one calendar date.
type DayBucket struct {
	Date          dates.Date    `json:"date"`
	Birthdays     []Derived     `json:"birthdays,omitempty"`
	Anniversaries []Derived     `json:"anniversaries,omitempty"`
	Events        []model.Event `json:"events,omitempty"`
}

// Total is the number of items in the bucket before capping.
func (b DayBucket) Total() int {
	return len(b.Birthdays) + len(b.Anniversaries) + len(b.Events)
}

// Entry is a single capped grid cell line.
type Entry struct {
	Kind  Kind   `json:"kind"` // KindBirthday, KindAnniversary, or "event"
	Title string `json:"title"`
	// Detail carries the occurrence label or the repeat-frequency label.
	Detail string `json:"detail,omitempty"`
}

// KindEvent tags explicit events in capped grid entries.
const KindEvent Kind = "event"

// Visible returns up to displayCap entries in display priority order
// (birthdays, then anniversaries, then events) plus the count of items
// that did not fit.
func (b DayBucket) Visible() ([]Entry, int) {
	var entries []Entry
	for _, d := range b.Birthdays {
		entries = append(entries, Entry{Kind: KindBirthday, Title: d.Person.Name, Detail: d.Label()})
	}
	for _, d := range b.Anniversaries {
		entries = append(entries, Entry{Kind: KindAnniversary, Title: d.Person.Name, Detail: d.Label()})
	}
	for _, ev := range b.Events {
		entries = append(entries, Entry{Kind: KindEvent, Title: ev.Title, Detail: ev.Repeat.Label()})
	}
	if len(entries) <= displayCap {
		return entries, 0
	}
	return entries[:displayCap], len(entries) - displayCap
}

// Bucket groups events and derived occurrences by their calendar date.
// Grouping uses only the date portion of event starts; time-of-day never
// moves an item between days.
func Bucket(events []model.Event, birthdays, anniversaries []Derived) map[dates.Date]*DayBucket {
	buckets := make(map[dates.Date]*DayBucket)
	at := func(d dates.Date) *DayBucket {
		b, ok := buckets[d]
		if !ok {
			b = &DayBucket{Date: d}
			buckets[d] = b
		}
		return b
	}

	for _, d := range birthdays {
		b := at(d.Date)
		b.Birthdays = append(b.Birthdays, d)
	}
	for _, d := range anniversaries {
		b := at(d.Date)
		b.Anniversaries = append(b.Anniversaries, d)
	}
	for _, ev := range events {
		b := at(ev.Date())
		b.Events = append(b.Events, ev)
	}
	return buckets
}

// Grid derives the year's birthdays and anniversaries for people, applies
// the filter, and buckets everything by date. Derived dates keep the
// CalendarYear policy: a June birthday stays on its June date even when
// rendering December.
func Grid(events []model.Event, people []model.Person, referenceYear int, f Filter) map[dates.Date]*DayBucket {
	var birthdays, anniversaries []Derived
	if f.ShowBirthdays {
		birthdays = Birthdays(people, referenceYear)
	}
	if f.ShowAnniversaries {
		anniversaries = Anniversaries(people, referenceYear)
	}
	return Bucket(f.Events(events), birthdays, anniversaries)
}

// Item is one row of the upcoming list.
type Item struct {
	Kind  Kind       `json:"kind"`
	Date  dates.Date `json:"date"`
	Title string     `json:"title"`
	// Detail is the derived-occurrence label or repeat label.
	Detail string `json:"detail,omitempty"`
	// EventID and PersonID identify the source record, depending on kind.
	EventID  string `json:"eventId,omitempty"`
	PersonID string `json:"personId,omitempty"`
}

// Upcoming projects the next windowDays of activity from reference.
// Derived occurrences follow the NextOccurrence policy: a birthday that
// already passed this year rolls to next year before the window test, so
// it usually falls out of a short window. Event dates are taken as stored.
// Results are sorted ascending by date.
func Upcoming(events []model.Event, people []model.Person, windowDays int, reference dates.Date, f Filter) []Item {
	windowEnd := reference.AddDays(windowDays)
	inWindow := func(d dates.Date) bool {
		return !d.Before(reference) && !d.After(windowEnd)
	}

	var items []Item
	if f.ShowBirthdays {
		for _, d := range Birthdays(people, reference.Year) {
			d = d.Project(NextOccurrence, reference)
			if inWindow(d.Date) {
				items = append(items, Item{
					Kind:     d.Kind,
					Date:     d.Date,
					Title:    d.Person.Name,
					Detail:   d.Label(),
					PersonID: d.Person.ID,
				})
			}
		}
	}
	if f.ShowAnniversaries {
		for _, d := range Anniversaries(people, reference.Year) {
			d = d.Project(NextOccurrence, reference)
			if inWindow(d.Date) {
				items = append(items, Item{
					Kind:     d.Kind,
					Date:     d.Date,
					Title:    d.Person.Name,
					Detail:   d.Label(),
					PersonID: d.Person.ID,
				})
			}
		}
	}
	for _, ev := range f.Events(events) {
		if inWindow(ev.Date()) {
			items = append(items, Item{
				Kind:    KindEvent,
				Date:    ev.Date(),
				Title:   ev.Title,
				Detail:  ev.Repeat.Label(),
				EventID: ev.ID,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
	return items
}

package occurrence

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camgitt/grace-crm-sub003/dates"
	"github.com/camgitt/grace-crm-sub003/model"
	"github.com/camgitt/grace-crm-sub003/recurrence"
)

func person(id, name, birthday, joined string) model.Person {
	p := model.Person{ID: id, Name: name}
	if birthday != "" {
		p.Birthday = mo.Some(dates.MustParse(birthday))
	}
	if joined != "" {
		p.JoinedOn = mo.Some(dates.MustParse(joined))
	}
	return p
}

func event(id, title string, start time.Time, category model.Category) model.Event {
	return model.Event{ID: id, Title: title, Start: start, Category: category}
}

func TestBirthdays(t *testing.T) {
	people := []model.Person{
		person("p1", "Ann Chu", "1990-06-05", ""),
		person("p2", "Bob Reyes", "", "2020-01-10"), // no birth date: skipped
		person("p3", "Cal Osei", "2000-12-31", ""),
	}

	got := Birthdays(people, 2025)
	require.Len(t, got, 2)

	assert.Equal(t, KindBirthday, got[0].Kind)
	assert.Equal(t, dates.MustParse("2025-06-05"), got[0].Date)
	assert.Equal(t, 35, got[0].Years)
	assert.Equal(t, "Turns 35", got[0].Label())

	assert.Equal(t, dates.MustParse("2025-12-31"), got[1].Date)
	assert.Equal(t, 25, got[1].Years)
}

func TestAnniversaries(t *testing.T) {
	people := []model.Person{
		person("p1", "Ann Chu", "", "2020-08-15"),
		person("p2", "Bob Reyes", "1985-02-02", ""), // no join date: skipped
		person("p3", "Cal Osei", "", "2025-03-01"),  // 0 years: excluded
		person("p4", "Dia Novak", "", "2026-01-01"), // negative years: excluded
		person("p5", "Ed Maris", "", "2024-04-01"),
	}

	got := Anniversaries(people, 2025)
	require.Len(t, got, 2)

	assert.Equal(t, KindAnniversary, got[0].Kind)
	assert.Equal(t, dates.MustParse("2025-08-15"), got[0].Date)
	assert.Equal(t, 5, got[0].Years)
	assert.Equal(t, "5 years", got[0].Label())

	assert.Equal(t, 1, got[1].Years)
	assert.Equal(t, "1 year", got[1].Label())
}

func TestProjectRolloverPolicies(t *testing.T) {
	reference := dates.MustParse("2025-06-10")
	d := Derived{
		Kind:   KindBirthday,
		Person: person("p1", "Ann Chu", "1990-06-05", ""),
		Date:   dates.MustParse("2025-06-05"),
		Years:  35,
	}

	// Grid view: the passed date stays in the current year.
	grid := d.Project(CalendarYear, reference)
	assert.Equal(t, dates.MustParse("2025-06-05"), grid.Date)
	assert.Equal(t, 35, grid.Years)

	// Upcoming view: the passed date rolls to next year.
	up := d.Project(NextOccurrence, reference)
	assert.Equal(t, dates.MustParse("2026-06-05"), up.Date)
	assert.Equal(t, 36, up.Years)

	// A date still ahead of the reference never rolls.
	future := Derived{Kind: KindBirthday, Date: dates.MustParse("2025-06-15"), Years: 35}
	assert.Equal(t, dates.MustParse("2025-06-15"), future.Project(NextOccurrence, reference).Date)
}

// The divergence between grid and upcoming views: a birthday five days in
// the past shows on its 2025 grid date but is absent from a 30-day
// upcoming window because it rolled to 2026.
func TestGridAndUpcomingDiverge(t *testing.T) {
	people := []model.Person{person("p1", "Ann Chu", "1990-06-05", "")}
	reference := dates.MustParse("2025-06-10")

	grid := Grid(nil, people, 2025, ShowAll)
	require.Contains(t, grid, dates.MustParse("2025-06-05"))
	assert.Equal(t, 35, grid[dates.MustParse("2025-06-05")].Birthdays[0].Years)

	up := Upcoming(nil, people, 30, reference, ShowAll)
	assert.Empty(t, up)
}

func TestBucketGroupsByDatePortion(t *testing.T) {
	events := []model.Event{
		event("e1", "Morning prayer", time.Date(2025, 6, 5, 7, 0, 0, 0, time.Local), model.CategoryService),
		event("e2", "Evening study", time.Date(2025, 6, 5, 19, 30, 0, 0, time.Local), model.CategorySmallGroup),
		event("e3", "Board meeting", time.Date(2025, 6, 6, 18, 0, 0, 0, time.Local), model.CategoryMeeting),
	}

	buckets := Bucket(events, nil, nil)
	require.Len(t, buckets, 2)
	assert.Len(t, buckets[dates.MustParse("2025-06-05")].Events, 2)
	assert.Len(t, buckets[dates.MustParse("2025-06-06")].Events, 1)
}

func TestVisibleCapAndPriority(t *testing.T) {
	day := dates.MustParse("2025-06-05")
	b := DayBucket{
		Date: day,
		Birthdays: []Derived{
			{Kind: KindBirthday, Person: model.Person{Name: "Ann Chu"}, Date: day, Years: 35},
		},
		Anniversaries: []Derived{
			{Kind: KindAnniversary, Person: model.Person{Name: "Bob Reyes"}, Date: day, Years: 5},
		},
		Events: []model.Event{
			{Title: "Morning prayer"},
			{Title: "Choir practice"},
		},
	}

	entries, overflow := b.Visible()
	require.Len(t, entries, 3)
	assert.Equal(t, 1, overflow)
	assert.Equal(t, 4, b.Total())

	// Birthdays first, then anniversaries, then events.
	assert.Equal(t, KindBirthday, entries[0].Kind)
	assert.Equal(t, "Ann Chu", entries[0].Title)
	assert.Equal(t, KindAnniversary, entries[1].Kind)
	assert.Equal(t, KindEvent, entries[2].Kind)
	assert.Equal(t, "Morning prayer", entries[2].Title)
}

func TestVisibleNoOverflow(t *testing.T) {
	b := DayBucket{Events: []model.Event{{Title: "Picnic"}}}
	entries, overflow := b.Visible()
	assert.Len(t, entries, 1)
	assert.Zero(t, overflow)
}

func TestFilterAppliedBeforeAggregation(t *testing.T) {
	events := []model.Event{
		event("e1", "Sunday service", time.Date(2025, 6, 8, 10, 0, 0, 0, time.Local), model.CategoryService),
		event("e2", "Elders meeting", time.Date(2025, 6, 8, 12, 0, 0, 0, time.Local), model.CategoryMeeting),
	}
	people := []model.Person{person("p1", "Ann Chu", "1990-06-08", "")}

	onlyServices := Filter{
		Categories:    []model.Category{model.CategoryService},
		ShowEvents:    true,
		ShowBirthdays: true,
	}

	grid := Grid(events, people, 2025, onlyServices)
	day := grid[dates.MustParse("2025-06-08")]
	require.NotNil(t, day)
	assert.Len(t, day.Events, 1)
	assert.Equal(t, "Sunday service", day.Events[0].Title)
	assert.Len(t, day.Birthdays, 1)
	assert.Empty(t, day.Anniversaries)

	hidden := Filter{ShowBirthdays: true}
	grid = Grid(events, people, 2025, hidden)
	day = grid[dates.MustParse("2025-06-08")]
	require.NotNil(t, day)
	assert.Empty(t, day.Events)
}

func TestUpcomingWindowAndOrder(t *testing.T) {
	reference := dates.MustParse("2025-06-01")
	events := []model.Event{
		event("e1", "Potluck", time.Date(2025, 6, 20, 12, 0, 0, 0, time.Local), model.CategoryEvent),
		event("e2", "Old service", time.Date(2025, 5, 25, 10, 0, 0, 0, time.Local), model.CategoryService),
		event("e3", "Far future", time.Date(2025, 8, 1, 10, 0, 0, 0, time.Local), model.CategoryEvent),
	}
	people := []model.Person{
		person("p1", "Ann Chu", "1990-06-05", ""),
		person("p2", "Bob Reyes", "", "2020-06-28"),
	}

	got := Upcoming(events, people, 30, reference, ShowAll)
	require.Len(t, got, 3)

	// Ascending by date: birthday Jun 5, potluck Jun 20, anniversary Jun 28.
	assert.Equal(t, KindBirthday, got[0].Kind)
	assert.Equal(t, dates.MustParse("2025-06-05"), got[0].Date)
	assert.Equal(t, "p1", got[0].PersonID)

	assert.Equal(t, KindEvent, got[1].Kind)
	assert.Equal(t, "e1", got[1].EventID)

	assert.Equal(t, KindAnniversary, got[2].Kind)
	assert.Equal(t, dates.MustParse("2025-06-28"), got[2].Date)
}

func TestUpcomingEventsDoNotRoll(t *testing.T) {
	// Stored events in the past simply fall outside the window; they are
	// never projected forward the way derived occurrences are.
	reference := dates.MustParse("2025-06-10")
	events := []model.Event{
		event("e1", "Last week", time.Date(2025, 6, 3, 9, 0, 0, 0, time.Local), model.CategoryEvent),
	}

	assert.Empty(t, Upcoming(events, nil, 30, reference, ShowAll))
}

func TestUpcomingBoundaries(t *testing.T) {
	reference := dates.MustParse("2025-06-01")
	events := []model.Event{
		event("e1", "On reference day", time.Date(2025, 6, 1, 23, 0, 0, 0, time.Local), model.CategoryEvent),
		event("e2", "On window edge", time.Date(2025, 7, 1, 0, 30, 0, 0, time.Local), model.CategoryEvent),
		event("e3", "Past window edge", time.Date(2025, 7, 2, 0, 0, 0, 0, time.Local), model.CategoryEvent),
	}

	got := Upcoming(events, nil, 30, reference, ShowAll)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].EventID)
	assert.Equal(t, "e2", got[1].EventID)
}

func TestEmptyInputs(t *testing.T) {
	assert.Empty(t, Birthdays(nil, 2025))
	assert.Empty(t, Anniversaries(nil, 2025))
	assert.Empty(t, Bucket(nil, nil, nil))
	assert.Empty(t, Upcoming(nil, nil, 30, dates.MustParse("2025-06-01"), ShowAll))
}

func TestEventRuleLabeling(t *testing.T) {
	ev := model.Event{Repeat: recurrence.Biweekly}
	assert.Equal(t, "Every 2 weeks", ev.Repeat.Label())
	assert.True(t, ev.Rule().IsPresent())

	plain := model.Event{}
	assert.False(t, plain.Rule().IsPresent())
}

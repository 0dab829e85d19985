// Package model defines the congregation calendar domain records. The data
// layer owns their lifecycle; the engine packages only read and derive.
package model

import (
	"time"

	"github.com/samber/mo"

	"github.com/camgitt/grace-crm-sub003/dates"
	"github.com/camgitt/grace-crm-sub003/recurrence"
)

// Category classifies an event for display and export.
type Category string

const (
	CategoryService    Category = "service"
	CategoryMeeting    Category = "meeting"
	CategoryEvent      Category = "event"
	CategorySmallGroup Category = "small-group"
	CategoryHoliday    Category = "holiday"
	CategoryOther      Category = "other"
)

// Event is a scheduled calendar occurrence. For all-day events the
// timestamps are date-only; time-of-day carries no meaning and is
// normalized to midnight at the export boundary.
type Event struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Start       time.Time              `json:"start"`
	End         mo.Option[time.Time]   `json:"end"`
	AllDay      bool                   `json:"allDay"`
	Location    string                 `json:"location,omitempty"`
	Category    Category               `json:"category"`
	Repeat      recurrence.Frequency   `json:"repeat"`
	RepeatUntil mo.Option[dates.Date]  `json:"repeatUntil"`
}

// Date returns the calendar date of the event's start.
func (e Event) Date() dates.Date {
	return dates.FromTime(e.Start)
}

// Rule returns the event's normalized recurrence rule, if it repeats.
func (e Event) Rule() mo.Option[recurrence.Rule] {
	return recurrence.Map(e.Repeat, e.RepeatUntil)
}

// Person is the slice of a member record the calendar engine reads:
// identity plus the two optional recurring personal dates.
type Person struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Birthday mo.Option[dates.Date] `json:"birthday"`
	JoinedOn mo.Option[dates.Date] `json:"joinedOn"`
}

// Response is an attendance answer to an event invitation.
type Response string

const (
	ResponseYes   Response = "yes"
	ResponseNo    Response = "no"
	ResponseMaybe Response = "maybe"
)

// Valid reports whether r is one of the three known answers.
func (r Response) Valid() bool {
	return r == ResponseYes || r == ResponseNo || r == ResponseMaybe
}

// RSVP records one person's answer for one event. Guests counts additional
// attendees beyond the responder. At most one RSVP exists per
// (event, person) pair; a later submission replaces the earlier one.
type RSVP struct {
	EventID  string   `json:"eventId"`
	PersonID string   `json:"personId"`
	Response Response `json:"response"`
	Guests   int      `json:"guests"`
}

// Task is a follow-up item. A task with a recurrence frequency spawns a
// successor when completed; RootTaskID links every instance in the chain
// back to the first one.
type Task struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Priority    string               `json:"priority,omitempty"`
	Category    string               `json:"category,omitempty"`
	PersonID    string               `json:"personId,omitempty"`
	DueDate     dates.Date           `json:"dueDate"`
	Completed   bool                 `json:"completed"`
	Recurrence  recurrence.Frequency `json:"recurrence"`
	RootTaskID  mo.Option[string]    `json:"rootTaskId"`
}

// Root returns the identifier of the first instance in this task's chain,
// which is the task's own ID when it has no back-reference.
func (t Task) Root() string {
	return t.RootTaskID.OrElse(t.ID)
}

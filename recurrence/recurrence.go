// Package recurrence holds the repeat-frequency vocabulary shared by events
// and follow-up tasks, and the single mapping table that gives each
// frequency its interval semantics.
package recurrence

import (
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/teambition/rrule-go"

	"github.com/camgitt/grace-crm-sub003/dates"
)

// Frequency is a repeat-frequency tag as stored on events and tasks.
type Frequency string

const (
	None      Frequency = "none"
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
)

// ParseFrequency maps a stored tag to a Frequency. Unknown tags degrade to
// None rather than failing; upstream data may carry values this version
// does not know about and export must not break on them.
func ParseFrequency(s string) Frequency {
	switch Frequency(s) {
	case Daily, Weekly, Biweekly, Monthly, Quarterly:
		return Frequency(s)
	default:
		return None
	}
}

// Label is the human-readable form used when the calendar grid annotates a
// repeating event.
func (f Frequency) Label() string {
	switch f {
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Biweekly:
		return "Every 2 weeks"
	case Monthly:
		return "Monthly"
	case Quarterly:
		return "Quarterly"
	default:
		return ""
	}
}

// Rule is the normalized recurrence form consumed by the interchange
// exporter, the link builder and the task scheduler: a base frequency, an
// interval multiplier and an optional inclusive end date.
type Rule struct {
	Freq     rrule.Frequency
	Interval int
	Until    mo.Option[dates.Date]
}

// table is the sole source of truth for interval semantics (biweekly is
// weekly with interval 2, quarterly is monthly with interval 3).
var table = map[Frequency]Rule{
	Daily:     {Freq: rrule.DAILY, Interval: 1},
	Weekly:    {Freq: rrule.WEEKLY, Interval: 1},
	Biweekly:  {Freq: rrule.WEEKLY, Interval: 2},
	Monthly:   {Freq: rrule.MONTHLY, Interval: 1},
	Quarterly: {Freq: rrule.MONTHLY, Interval: 3},
}

var freqNames = map[rrule.Frequency]string{
	rrule.DAILY:   "DAILY",
	rrule.WEEKLY:  "WEEKLY",
	rrule.MONTHLY: "MONTHLY",
}

// Map translates a frequency tag and optional end date into a Rule.
// None and unknown tags yield no rule.
func Map(f Frequency, until mo.Option[dates.Date]) mo.Option[Rule] {
	base, ok := table[f]
	if !ok {
		return mo.None[Rule]()
	}
	base.Until = until
	return mo.Some(base)
}

// Encode renders the rule as an RRULE value, e.g.
// "FREQ=WEEKLY;INTERVAL=2;UNTIL=20251231T235959Z". INTERVAL is omitted
// when 1. For all-day events the UNTIL bound is a bare date; otherwise it
// is the last second of the inclusive end day in UTC.
func (r Rule) Encode(allDay bool) string {
	s := "FREQ=" + freqNames[r.Freq]
	if r.Interval > 1 {
		s += fmt.Sprintf(";INTERVAL=%d", r.Interval)
	}
	if until, ok := r.Until.Get(); ok {
		if allDay {
			s += ";UNTIL=" + until.Compact()
		} else {
			s += ";UNTIL=" + until.Compact() + "T235959Z"
		}
	}
	return s
}

// Advance moves a due date forward by one interval of f using calendar
// arithmetic. Month-based frequencies follow the date library's native
// rollover (Jan 31 + 1 month lands in March). For None the date is
// returned unchanged; callers do not schedule non-repeating work.
func Advance(d dates.Date, f Frequency) dates.Date {
	switch f {
	case Daily:
		return d.AddDays(1)
	case Weekly:
		return d.AddDays(7)
	case Biweekly:
		return d.AddDays(14)
	case Monthly:
		return d.AddMonths(1)
	case Quarterly:
		return d.AddMonths(3)
	default:
		return d
	}
}

// Occurrences expands the rule into concrete start times within
// [windowStart, windowEnd], inclusive on both ends, anchored at the
// event's first start. Used by the reminder digest; the month grid never
// expands recurrences.
func (r Rule) Occurrences(start, windowStart, windowEnd time.Time) ([]time.Time, error) {
	opt := rrule.ROption{
		Freq:     r.Freq,
		Interval: r.Interval,
		Dtstart:  start.UTC(),
	}
	if until, ok := r.Until.Get(); ok {
		// UNTIL is inclusive: extend to the end of that day.
		opt.Until = until.Midnight().Add(24*time.Hour - time.Second)
	}
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("building recurrence rule: %w", err)
	}
	return rule.Between(windowStart.UTC(), windowEnd.UTC(), true), nil
}

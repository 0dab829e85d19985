// Package export serializes events into the iCalendar interchange format
// and into third-party "add to calendar" URLs.
package export

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/camgitt/grace-crm-sub003/dates"
	"github.com/camgitt/grace-crm-sub003/model"
)

const (
	prodID        = "-//Grace CRM//Calendar//EN"
	fileExt       = ".ics"
	contentType   = "text/calendar"
	maxLineOctets = 75
)

// categoryLabels maps event categories to the fixed interchange labels.
// Anything unmapped exports as OTHER.
var categoryLabels = map[model.Category]string{
	model.CategoryService:    "CHURCH SERVICE",
	model.CategoryMeeting:    "MEETING",
	model.CategoryEvent:      "EVENT",
	model.CategorySmallGroup: "SMALL GROUP",
	model.CategoryHoliday:    "HOLIDAY",
	model.CategoryOther:      "OTHER",
}

// CategoryLabel returns the interchange label for a category.
func CategoryLabel(c model.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "OTHER"
}

// ContentType is the MIME type of the exported document.
func ContentType() string { return contentType }

// Slug normalizes an owner name for filenames and identifiers:
// lower-cased with spaces replaced by hyphens.
func Slug(owner string) string {
	return strings.ReplaceAll(strings.ToLower(owner), " ", "-")
}

// Filename derives the download filename from the calendar owner's name.
func Filename(owner string) string {
	return Slug(owner) + fileExt
}

// Exporter writes complete interchange documents. Owner feeds the
// deterministic per-event UIDs; Now supplies the DTSTAMP clock and
// defaults to time.Now, injectable so exports are reproducible in tests.
type Exporter struct {
	Owner string
	Now   func() time.Time
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// UID derives the event's globally unique identifier from its own id and
// the normalized owner name. The same input always yields the same UID,
// so re-exports dedup cleanly in downstream calendar apps.
func (e *Exporter) UID(ev model.Event) string {
	name := "grace-crm://" + Slug(e.Owner) + "/" + ev.ID
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// Export serializes events into one interchange document with label as
// the calendar display name. Output uses CRLF terminators, escaped text
// values and 75-octet line folding throughout.
func (e *Exporter) Export(events []model.Event, label string) string {
	var b strings.Builder
	stamp := e.now().UTC().Format("20060102T150405Z")

	writeLine(&b, "BEGIN:VCALENDAR")
	writeProp(&b, "VERSION", "2.0")
	writeProp(&b, "PRODID", prodID)
	writeProp(&b, "CALSCALE", "GREGORIAN")
	writeProp(&b, "METHOD", "PUBLISH")
	writeProp(&b, "X-WR-CALNAME", escapeText(label))

	for _, ev := range events {
		writeLine(&b, "BEGIN:VEVENT")
		writeProp(&b, "UID", e.UID(ev))
		writeProp(&b, "DTSTAMP", stamp)
		e.writeSpan(&b, ev)
		writeProp(&b, "SUMMARY", escapeText(ev.Title))
		if ev.Description != "" {
			writeProp(&b, "DESCRIPTION", escapeText(ev.Description))
		}
		if ev.Location != "" {
			writeProp(&b, "LOCATION", escapeText(ev.Location))
		}
		if rule, ok := ev.Rule().Get(); ok {
			writeProp(&b, "RRULE", rule.Encode(ev.AllDay))
		}
		writeProp(&b, "CATEGORIES", CategoryLabel(ev.Category))
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

// writeSpan emits DTSTART and DTEND. All-day events use date-only values
// with an exclusive end one day after the nominal end date; timed events
// use UTC date-times, defaulting to one hour after start when no end is
// stored.
func (e *Exporter) writeSpan(b *strings.Builder, ev model.Event) {
	if ev.AllDay {
		start, end := AllDaySpan(ev)
		writeProp(b, "DTSTART;VALUE=DATE", start.Compact())
		writeProp(b, "DTEND;VALUE=DATE", end.Compact())
		return
	}
	start, end := TimedSpan(ev)
	writeProp(b, "DTSTART", start.Format("20060102T150405Z"))
	writeProp(b, "DTEND", end.Format("20060102T150405Z"))
}

// AllDaySpan resolves an all-day event to its start date and exclusive
// end date. An event ending on its start date spans exactly one day.
func AllDaySpan(ev model.Event) (start, endExclusive dates.Date) {
	start = ev.Date()
	nominalEnd := start
	if end, ok := ev.End.Get(); ok {
		nominalEnd = dates.FromTime(end)
	}
	return start, nominalEnd.AddDays(1)
}

// TimedSpan resolves a timed event to UTC start and end instants, with
// the documented one-hour fallback when no end is stored.
func TimedSpan(ev model.Event) (start, end time.Time) {
	start = ev.Start.UTC()
	if stored, ok := ev.End.Get(); ok {
		return start, stored.UTC()
	}
	return start, start.Add(time.Hour)
}

// escapeText applies the interchange text-safety rules: backslash,
// semicolon, comma and newline are escaped with a backslash prefix, the
// newline becoming the two-character sequence \n.
func escapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// Bare or CRLF carriage returns collapse into the escaped newline.
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// writeProp emits one "NAME:value" content line, folded if needed.
// Folding happens after escaping; the escaped value is what gets wrapped.
func writeProp(b *strings.Builder, name, value string) {
	writeLine(b, name+":"+value)
}

// writeLine folds a logical line into physical lines of at most 75 octets
// and terminates each with CRLF. Continuation lines start with a single
// space that counts against their 75-octet budget; folding never splits a
// UTF-8 sequence.
func writeLine(b *strings.Builder, line string) {
	budget := maxLineOctets
	for len(line) > budget {
		cut := budget
		// Back up to a rune boundary.
		for cut > 0 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		budget = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

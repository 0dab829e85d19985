// Package rsvp rolls attendance responses up into per-event totals.
package rsvp

import "github.com/camgitt/grace-crm-sub003/model"

// Summary is the roll-up for one event.
type Summary struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Maybe int `json:"maybe"`
	// TotalAttending counts responders who said yes plus their guests.
	// Guests attached to "no" and "maybe" responses are not counted.
	TotalAttending int `json:"totalAttending"`
}

// Summarize counts the responses recorded for eventID. People with no
// RSVP contribute nothing; an empty input yields a zero summary.
func Summarize(eventID string, rsvps []model.RSVP) Summary {
	var s Summary
	for _, r := range rsvps {
		if r.EventID != eventID {
			continue
		}
		switch r.Response {
		case model.ResponseYes:
			s.Yes++
			s.TotalAttending += 1 + r.Guests
		case model.ResponseNo:
			s.No++
		case model.ResponseMaybe:
			s.Maybe++
		}
	}
	return s
}

// Upsert applies last-write-wins semantics: if a response for the same
// (event, person) pair already exists it is replaced in place, otherwise
// the new response is appended. The input slice is not modified.
func Upsert(rsvps []model.RSVP, r model.RSVP) []model.RSVP {
	out := make([]model.RSVP, len(rsvps))
	copy(out, rsvps)
	for i, existing := range out {
		if existing.EventID == r.EventID && existing.PersonID == r.PersonID {
			out[i] = r
			return out
		}
	}
	return append(out, r)
}

package export

import (
	"fmt"
	"net/url"

	"github.com/camgitt/grace-crm-sub003/model"
)

// Provider identifies a third-party calendar web application.
type Provider string

const (
	ProviderGoogle  Provider = "google"
	ProviderOutlook Provider = "outlook"
)

const (
	googleBase  = "https://calendar.google.com/calendar/render"
	outlookBase = "https://outlook.live.com/calendar/0/action/compose"
)

// AddEventURL builds a single-event "add to calendar" deep link for the
// given provider. No network call is made; this only formats a URL.
func AddEventURL(ev model.Event, p Provider) (string, error) {
	switch p {
	case ProviderGoogle:
		return googleURL(ev), nil
	case ProviderOutlook:
		return outlookURL(ev), nil
	default:
		return "", fmt.Errorf("unknown calendar provider %q", p)
	}
}

// googleURL uses the compact basic format: 8-digit dates for all-day
// events, 20060102T150405Z timestamps otherwise, joined with a slash.
func googleURL(ev model.Event) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", ev.Title)

	if ev.AllDay {
		start, end := AllDaySpan(ev)
		q.Set("dates", start.Compact()+"/"+end.Compact())
	} else {
		start, end := TimedSpan(ev)
		q.Set("dates", start.Format("20060102T150405Z")+"/"+end.Format("20060102T150405Z"))
	}

	if ev.Description != "" {
		q.Set("details", ev.Description)
	}
	if ev.Location != "" {
		q.Set("location", ev.Location)
	}
	if rule, ok := ev.Rule().Get(); ok {
		q.Set("recur", "RRULE:"+rule.Encode(ev.AllDay))
	}
	return googleBase + "?" + q.Encode()
}

// outlookURL uses extended ISO-8601 timestamps for timed events and the
// same compact 8-digit dates for all-day ones.
func outlookURL(ev model.Event) string {
	q := url.Values{}
	q.Set("rru", "addevent")
	q.Set("subject", ev.Title)

	if ev.AllDay {
		start, end := AllDaySpan(ev)
		q.Set("startdt", start.Compact())
		q.Set("enddt", end.Compact())
		q.Set("allday", "true")
	} else {
		start, end := TimedSpan(ev)
		q.Set("startdt", start.Format("2006-01-02T15:04:05Z"))
		q.Set("enddt", end.Format("2006-01-02T15:04:05Z"))
	}

	if ev.Description != "" {
		q.Set("body", ev.Description)
	}
	if ev.Location != "" {
		q.Set("location", ev.Location)
	}
	if rule, ok := ev.Rule().Get(); ok {
		q.Set("recur", "RRULE:"+rule.Encode(ev.AllDay))
	}
	return outlookBase + "?" + q.Encode()
}

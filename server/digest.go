package server

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/camgitt/grace-crm-sub003/dates"
	"github.com/camgitt/grace-crm-sub003/occurrence"
)

// StartDigest schedules a periodic job that logs the upcoming window:
// birthdays, anniversaries, single events, and the expanded instances of
// repeating events. The returned cron must be stopped by the caller on
// shutdown.
func (s *Server) StartDigest(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.runDigest); err != nil {
		return nil, fmt.Errorf("scheduling digest %q: %w", spec, err)
	}
	c.Start()
	s.logger.Info("digest scheduled", "cron", spec, "window_days", s.window)
	return c, nil
}

func (s *Server) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events, err := s.store.ListEvents(ctx)
	if err != nil {
		s.logger.Error("digest: listing events failed", "error", err)
		return
	}
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		s.logger.Error("digest: listing people failed", "error", err)
		return
	}

	reference := dates.FromTime(s.now())
	items := occurrence.Upcoming(events, people, s.window, reference, occurrence.ShowAll)
	for _, item := range items {
		s.logger.Info("upcoming",
			"kind", item.Kind,
			"date", item.Date.String(),
			"title", item.Title,
			"detail", item.Detail)
	}

	// Repeating events also occur between their stored date and the window
	// edge; expand those instances so reminders cover them.
	windowStart := reference.Midnight()
	windowEnd := reference.AddDays(s.window).Midnight().Add(24*time.Hour - time.Second)
	for _, ev := range events {
		rule, ok := ev.Rule().Get()
		if !ok {
			continue
		}
		starts, err := rule.Occurrences(ev.Start, windowStart, windowEnd)
		if err != nil {
			s.logger.Error("digest: expanding recurrence failed",
				"event_id", ev.ID,
				"error", err)
			continue
		}
		for _, at := range starts {
			if at.Equal(ev.Start.UTC()) {
				continue // the stored date was already reported above
			}
			s.logger.Info("upcoming recurrence",
				"date", dates.FromTime(at).String(),
				"title", ev.Title,
				"detail", ev.Repeat.Label())
		}
	}

	s.logger.Info("digest complete", "items", len(items), "window_days", s.window)
}

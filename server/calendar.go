package server

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/camgitt/grace-crm-sub003/dates"
	"github.com/camgitt/grace-crm-sub003/export"
	"github.com/camgitt/grace-crm-sub003/model"
	"github.com/camgitt/grace-crm-sub003/occurrence"
)

// filterFromQuery builds the aggregation filter from query parameters:
// repeatable "category" values plus boolean visibility toggles that
// default to true.
func filterFromQuery(r *http.Request) occurrence.Filter {
	q := r.URL.Query()
	f := occurrence.ShowAll
	for _, c := range q["category"] {
		f.Categories = append(f.Categories, model.Category(c))
	}
	if q.Get("events") == "false" {
		f.ShowEvents = false
	}
	if q.Get("birthdays") == "false" {
		f.ShowBirthdays = false
	}
	if q.Get("anniversaries") == "false" {
		f.ShowAnniversaries = false
	}
	return f
}

type gridDay struct {
	Date     dates.Date         `json:"date"`
	Entries  []occurrence.Entry `json:"entries"`
	Overflow int                `json:"overflow"`
	Total    int                `json:"total"`
}

type gridResponse struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Days  []gridDay `json:"days"`
}

func (s *Server) handleMonthGrid(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	month, _ := strconv.Atoi(vars["month"])
	if month < 1 || month > 12 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "month must be 1-12"})
		return
	}

	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	people, err := s.store.ListPeople(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	buckets := occurrence.Grid(events, people, year, filterFromQuery(r))

	resp := gridResponse{Year: year, Month: month, Days: []gridDay{}}
	for date, bucket := range buckets {
		if date.Year != year || int(date.Month) != month {
			continue
		}
		entries, overflow := bucket.Visible()
		resp.Days = append(resp.Days, gridDay{
			Date:     date,
			Entries:  entries,
			Overflow: overflow,
			Total:    bucket.Total(),
		})
	}
	sort.Slice(resp.Days, func(i, j int) bool {
		return resp.Days[i].Date.Before(resp.Days[j].Date)
	})

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days := s.window
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	people, err := s.store.ListPeople(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	reference := dates.FromTime(s.now())
	items := occurrence.Upcoming(events, people, days, reference, filterFromQuery(r))
	if items == nil {
		items = []occurrence.Item{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"reference": reference,
		"days":      days,
		"items":     items,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc := s.exporter.Export(events, s.calName)
	filename := export.Filename(s.owner)

	w.Header().Set("Content-Type", export.ContentType()+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		s.logger.Error("failed to write export", "error", err)
		return
	}

	s.logger.Debug("exported calendar",
		"events", len(events),
		"filename", filename,
		"bytes", len(doc))
}

func (s *Server) handleEventLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ev, err := s.store.GetEvent(r.Context(), vars["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}

	link, err := export.AddEventURL(*ev, export.Provider(vars["provider"]))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"provider": vars["provider"],
		"url":      link,
	})
}

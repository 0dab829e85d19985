package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/camgitt/grace-crm-sub003/model"
	"github.com/camgitt/grace-crm-sub003/rsvp"
)

func (s *Server) handleRSVPSummary(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	if _, err := s.store.GetEvent(r.Context(), eventID); err != nil {
		s.writeError(w, err)
		return
	}

	responses, err := s.store.ListRSVPs(r.Context(), eventID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, rsvp.Summarize(eventID, responses))
}

type rsvpRequest struct {
	PersonID string         `json:"personId"`
	Response model.Response `json:"response"`
	Guests   int            `json:"guests"`
}

func (s *Server) handleRSVPSubmit(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, err := s.store.GetEvent(r.Context(), eventID); err != nil {
		s.writeError(w, err)
		return
	}

	record := model.RSVP{
		EventID:  eventID,
		PersonID: req.PersonID,
		Response: req.Response,
		Guests:   req.Guests,
	}
	if err := s.store.PutRSVP(r.Context(), record); err != nil {
		s.writeError(w, err)
		return
	}

	responses, err := s.store.ListRSVPs(r.Context(), eventID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("recorded rsvp",
		"event_id", eventID,
		"person_id", req.PersonID,
		"response", req.Response)
	s.writeJSON(w, http.StatusOK, rsvp.Summarize(eventID, responses))
}

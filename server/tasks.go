package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/camgitt/grace-crm-sub003/model"
	"github.com/camgitt/grace-crm-sub003/recurrence"
	"github.com/camgitt/grace-crm-sub003/tasks"
)

type completeResponse struct {
	Completed model.Task  `json:"completed"`
	Next      *model.Task `json:"next,omitempty"`
}

// handleTaskComplete marks the task completed and, for repeating tasks,
// inserts the next chain instance. The completed record is never deleted;
// it only gains its completed flag. Replaying the request is rejected so a
// completed instance spawns at most one successor.
func (s *Server) handleTaskComplete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if task.Completed {
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "task already completed"})
		return
	}

	task.Completed = true
	if err := s.store.PutTask(r.Context(), *task); err != nil {
		s.writeError(w, err)
		return
	}

	resp := completeResponse{Completed: *task}
	if task.Recurrence != recurrence.None {
		next := tasks.NextInstance(*task, uuid.NewString())
		if err := s.store.PutTask(r.Context(), next); err != nil {
			s.writeError(w, err)
			return
		}
		resp.Next = &next
		s.logger.Info("scheduled next task instance",
			"completed_id", task.ID,
			"next_id", next.ID,
			"due", next.DueDate.String(),
			"root", next.Root())
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleTaskChain returns every instance belonging to the same recurring
// chain as the given task, completed ones included.
func (s *Server) handleTaskChain(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	all, err := s.store.ListTasks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	chain := tasks.Chain(all)[task.Root()]
	s.writeJSON(w, http.StatusOK, map[string]any{
		"root":  task.Root(),
		"tasks": chain,
	})
}

package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ledovskis/taskkeeper/internal/casing"
	"github.com/ledovskis/taskkeeper/internal/common"
)

type createTaskRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid json", common.ErrorValidation))
		return
	}
	if err := validateDescription(req.Description); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.Create(r.Context(), ownerID(r.Context()), req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, taskBody(task))
}

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, order := listParams(q.Get("filter"), q.Get("orderBy"))

	tasks, err := s.tasks.List(r.Context(), ownerID(r.Context()), filter, order)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		body = append(body, taskBody(t))
	}
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), ownerID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, taskBody(task))
}

// handleTaskEdit accepts a partial update with camelCase keys. The payload is
// renamed to storage column names first, so the accepted keys stay the exact
// mirror of what task responses emit.
func (s *Server) handleTaskEdit(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid json", common.ErrorValidation))
		return
	}
	payload = casing.ToSnake(payload)

	var description, state *string
	for key, value := range payload {
		str, ok := value.(string)
		if !ok {
			s.writeError(w, r, fmt.Errorf("%w: %s must be a string", common.ErrorValidation, key))
			return
		}
		switch key {
		case "description":
			description = &str
		case "state":
			state = &str
		default:
			s.writeError(w, r, fmt.Errorf("%w: unknown field %s", common.ErrorValidation, key))
			return
		}
	}
	if description != nil {
		if err := validateDescription(*description); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	task, err := s.tasks.Edit(r.Context(), ownerID(r.Context()), mux.Vars(r)["id"], description, state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, taskBody(task))
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), ownerID(r.Context()), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
}

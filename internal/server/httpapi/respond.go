package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ledovskis/taskkeeper/internal/casing"
	"github.com/ledovskis/taskkeeper/internal/common"
	"github.com/ledovskis/taskkeeper/internal/server/models"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			s.logger.Error(context.Background(), "encoding response", "error", err)
		}
	}
}

// writeError maps service errors onto HTTP statuses. Unknown errors are
// reported as a generic 500 so no internals leak to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrNoFieldsProvided),
		errors.Is(err, common.ErrTaskAlreadyComplete),
		errors.Is(err, common.ErrDuplicateEmail):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
		message = err.Error()
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	s.writeJSON(w, status, map[string]any{"error": message})
}

// taskBody renders a task for the wire. Keys follow the storage column names
// and are renamed to camelCase in one place, so the wire format and the
// partial-update format stay mirror images of each other.
func taskBody(t *models.Task) map[string]any {
	body := map[string]any{
		"id":           t.ID,
		"description":  t.Description,
		"state":        t.State,
		"created_at":   t.CreatedAt,
		"completed_at": nil,
	}
	if t.CompletedAt != nil {
		body["completed_at"] = *t.CompletedAt
	}
	return casing.ToCamel(body)
}

func userBody(u *models.User) map[string]any {
	return casing.ToCamel(map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	})
}

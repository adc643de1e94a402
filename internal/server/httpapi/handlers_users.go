package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ledovskis/taskkeeper/internal/common"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid json", common.ErrorValidation))
		return
	}
	if err := validateName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validateEmail(req.Email); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered")
	s.writeJSON(w, http.StatusCreated, map[string]any{"token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid json", common.ErrorValidation))
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			s.logger.Warn(r.Context(), "failed login attempt")
		}
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), bearerToken(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Profile(r.Context(), bearerToken(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, userBody(user))
}

type editProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (s *Server) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	var req editProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid json", common.ErrorValidation))
		return
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Email != nil {
		if err := validateEmail(*req.Email); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	user, err := s.users.EditProfile(r.Context(), bearerToken(r.Context()), req.Name, req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, userBody(user))
}

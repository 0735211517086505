package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gardenal/internal/auth"
	"github.com/mauv0809/gardenal/internal/player"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password required")
			return
		}

		p, err := s.Players.GetByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, player.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			writeServiceError(w, r, err)
			return
		}
		if err := auth.ComparePassword(p.PasswordHash, req.Password); err != nil {
			if !errors.Is(err, auth.ErrInvalidCredentials) {
				log.Error("Failed to compare password", "error", err, "playerID", p.ID)
			}
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := s.Tokens.GenerateToken(p.ID, p.Role)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.setSessionCookie(w, token)
		log.Info("Player logged in", "playerID", p.ID)
		writeJSON(w, http.StatusOK, map[string]any{"user": p, "token": token})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": currentPlayer(r)})
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.OldPassword == "" || req.NewPassword == "" {
			writeError(w, http.StatusBadRequest, "oldPassword and newPassword required")
			return
		}
		p := currentPlayer(r)
		if err := auth.ComparePassword(p.PasswordHash, req.OldPassword); err != nil {
			writeError(w, http.StatusForbidden, "old password incorrect")
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.Players.UpdatePassword(r.Context(), p.ID, hash); err != nil {
			writeServiceError(w, r, err)
			return
		}
		log.Info("Player changed password", "playerID", p.ID)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name required")
			return
		}
		p := currentPlayer(r)
		if err := s.Players.UpdateName(r.Context(), p.ID, name); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "name": name})
	}
}

package http

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/gardenal/internal/auth"
	"github.com/mauv0809/gardenal/internal/player"
)

// ListPlayersHandler returns the public directory used to pick rosters.
func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Players.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		type entry struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		out := make([]entry, 0, len(players))
		for _, p := range players {
			out = append(out, entry{ID: p.ID, Name: p.DisplayName(), Email: p.Email})
		}
		writeJSON(w, http.StatusOK, map[string]any{"players": out})
	}
}

func (s *Server) AdminListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Players.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"players": players})
	}
}

func (s *Server) AdminCreatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPlayerRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password required")
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		role := player.RoleUser
		if req.Role == string(player.RoleAdmin) {
			role = player.RoleAdmin
		}
		p := &player.Player{
			Email:        req.Email,
			Name:         strings.TrimSpace(req.Name),
			Role:         role,
			PasswordHash: hash,
		}
		if err := s.Players.Create(r.Context(), p); err != nil {
			writeServiceError(w, r, err)
			return
		}
		log.Info("Player created", "playerID", p.ID, "role", p.Role, "by", currentPlayer(r).ID)
		writeJSON(w, http.StatusCreated, map[string]string{"id": p.ID})
	}
}

func (s *Server) AdminRenamePlayerHandler() http.HandlerFunc {
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
		if err := s.Players.UpdateName(r.Context(), chi.URLParam(r, "id"), name); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "name": name})
	}
}

func (s *Server) AdminChangeRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		role, ok := player.ParseRole(req.Role)
		if !ok {
			writeError(w, http.StatusBadRequest, "role must be 'admin' or 'user'")
			return
		}
		id := chi.URLParam(r, "id")
		if id == currentPlayer(r).ID {
			writeError(w, http.StatusBadRequest, "cannot change your own role")
			return
		}
		if err := s.Players.UpdateRole(r.Context(), id, role); err != nil {
			writeServiceError(w, r, err)
			return
		}
		log.Info("Player role changed", "playerID", id, "role", role)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "role": role})
	}
}

func (s *Server) AdminResetPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passwordRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		id := chi.URLParam(r, "id")
		if err := s.Players.UpdatePassword(r.Context(), id, hash); err != nil {
			writeServiceError(w, r, err)
			return
		}
		log.Info("Player password reset", "playerID", id)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/gardenal/internal/ledger"
)

// names resolves player ids to display names. Unknown ids resolve to "Unknown".
func (s *Server) names(ctx context.Context, matches ...*ledger.Match) map[string]string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range matches {
		for _, id := range m.Players() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	out := make(map[string]string, len(ids))
	players, err := s.Players.GetMany(ctx, ids)
	if err != nil {
		log.Error("Failed to resolve player names", "error", err)
	}
	for _, p := range players {
		out[p.ID] = p.DisplayName()
	}
	return out
}

func toMatchResponse(m *ledger.Match, names map[string]string) matchResponse {
	ref := func(roster [2]string) []playerRef {
		refs := make([]playerRef, 0, len(roster))
		for _, id := range roster {
			name, ok := names[id]
			if !ok {
				name = "Unknown"
			}
			refs = append(refs, playerRef{ID: id, Name: name})
		}
		return refs
	}
	return matchResponse{
		Match:       m,
		TeamA:       ref(m.TeamA),
		TeamB:       ref(m.TeamB),
		Lisa:        m.HasLisa(),
		LisaPlayers: m.Lisa,
	}
}

func (s *Server) writeMatch(w http.ResponseWriter, r *http.Request, status int, m *ledger.Match) {
	writeJSON(w, status, map[string]any{"match": toMatchResponse(m, s.names(r.Context(), m))})
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := ledger.ListOptions{PlayerID: q.Get("player")}
		if v := q.Get("limit"); v != "" {
			limit, err := strconv.Atoi(v)
			if err != nil || limit < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			opts.Limit = limit
		}
		if v := q.Get("finished"); v != "" {
			finished, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "finished must be true or false")
				return
			}
			opts.Finished = &finished
		}

		matches, err := s.Ledger.ListMatches(r.Context(), opts)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		names := s.names(r.Context(), matches...)
		out := make([]matchResponse, 0, len(matches))
		for _, m := range matches {
			out = append(out, toMatchResponse(m, names))
		}
		writeJSON(w, http.StatusOK, map[string]any{"matches": out})
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMatchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		m, err := s.Ledger.CreateMatch(r.Context(), currentPlayer(r).ID, req.TeamA, req.TeamB)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.writeMatch(w, r, http.StatusCreated, m)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Ledger.GetMatch(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.writeMatch(w, r, http.StatusOK, m)
	}
}

func (s *Server) CancelMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := s.Ledger.CancelMatch(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		log.Info("Match cancelled by admin", "matchID", id, "by", currentPlayer(r).ID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "match cancelled"})
	}
}

func (s *Server) ListRoundsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Ledger.GetMatch(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"rounds": m.Rounds})
	}
}

func (s *Server) AddRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addRoundRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.PointsA == nil || req.PointsB == nil {
			writeError(w, http.StatusBadRequest, "pointsA and pointsB numbers required")
			return
		}
		m, err := s.Ledger.AddRound(r.Context(), chi.URLParam(r, "id"), *req.PointsA, *req.PointsB, currentPlayer(r).ID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.writeMatch(w, r, http.StatusOK, m)
	}
}

func (s *Server) UndoRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Ledger.UndoLastRound(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.writeMatch(w, r, http.StatusOK, m)
	}
}

func (s *Server) DeleteRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := strconv.Atoi(chi.URLParam(r, "roundNumber"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "round number must be an integer")
			return
		}
		m, err := s.Ledger.DeleteRound(r.Context(), chi.URLParam(r, "id"), number)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.writeMatch(w, r, http.StatusOK, m)
	}
}

func (s *Server) FinishMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Ledger.FinishMatch(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.writeMatch(w, r, http.StatusOK, m)
	}
}


package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
)

func (s *Server) MyStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Ranking.PlayerStats(r.Context(), currentPlayer(r).ID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Ranking.PlayerStats(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) RankingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Ranking.Ranking(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ranking": entries})
	}
}

// AnnounceRankingHandler posts the current ranking to the league channel.
func (s *Server) AnnounceRankingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Ranking.Ranking(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if err := s.Notifier.SendRanking(entries, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce ranking", "error", err)
			writeError(w, http.StatusBadGateway, "failed to post ranking to Slack")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "players": len(entries)})
	}
}

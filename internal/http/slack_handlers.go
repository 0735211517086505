package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg writes a formatted slash command reply.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// slackVerifyMiddleware rejects requests that are not signed with the configured signing secret.
func (s *Server) slackVerifyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := s.Cfg.Slack.SigningSecret
		if secret == "" {
			http.Error(w, "slack integration not configured", http.StatusServiceUnavailable)
			return
		}
		verifier, err := slack.NewSecretsVerifier(r.Header, secret)
		if err != nil {
			log.Warn("Rejected slack request", "error", err)
			http.Error(w, "invalid slack signature", http.StatusUnauthorized)
			return
		}
		body, err := io.ReadAll(io.TeeReader(io.LimitReader(r.Body, maxBodyBytes), &verifier))
		if err != nil {
			http.Error(w, "Error reading body", http.StatusBadRequest)
			return
		}
		if err := verifier.Ensure(); err != nil {
			log.Warn("Rejected slack request", "error", err)
			http.Error(w, "invalid slack signature", http.StatusUnauthorized)
			return
		}
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		next.ServeHTTP(w, r)
	})
}

// RankingCommandHandler answers "/ranking" with the league table and "/ranking <name>" with
// the stats of the first player whose name contains <name>.
func (s *Server) RankingCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		query := strings.TrimSpace(r.FormValue("text"))
		log.Info("Received ranking command", "query", query, "user", r.FormValue("user_name"))

		var (
			msg any
			err error
		)
		if query == "" {
			entries, rerr := s.Ranking.Ranking(r.Context())
			if rerr != nil {
				log.Error("Failed to compute ranking", "error", rerr)
				http.Error(w, "Failed to compute ranking", http.StatusInternalServerError)
				return
			}
			msg, err = s.Notifier.FormatRankingResponse(entries)
		} else {
			msg, err = s.playerStatsMessage(r, query)
		}
		if err != nil {
			log.Error("Failed to format ranking command response", "error", err)
			http.Error(w, "Failed to format response", http.StatusInternalServerError)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

func (s *Server) playerStatsMessage(r *http.Request, query string) (any, error) {
	players, err := s.Players.List(r.Context())
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	for _, p := range players {
		if strings.Contains(strings.ToLower(p.DisplayName()), needle) {
			stats, err := s.Ranking.PlayerStats(r.Context(), p.ID)
			if err != nil {
				return nil, err
			}
			return s.Notifier.FormatPlayerStatsResponse(stats)
		}
	}
	log.Warn("Could not find player for ranking command", "query", query)
	return s.Notifier.FormatPlayerNotFoundResponse(query)
}

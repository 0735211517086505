package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mauv0809/gardenal/internal/auth"
	"github.com/mauv0809/gardenal/internal/config"
	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/notifier"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/mauv0809/gardenal/internal/ranking"
	"golang.org/x/time/rate"
)

func NewServer(players player.Store, ledgerSvc *ledger.Service, rankingSvc *ranking.Service, tokens auth.TokenService, notifier notifier.Notifier, metricsHandler http.Handler, cfg config.Config) *Server {
	perMinute := cfg.Auth.LoginRatePerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	server := &Server{
		Players:        players,
		Ledger:         ledgerSvc,
		Ranking:        rankingSvc,
		Tokens:         tokens,
		Notifier:       notifier,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         chi.NewRouter(),
		loginLimiter:   NewIPRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(paramsMiddleware)

	r.Handle("/metrics", s.MetricsHandler)
	r.Get("/health", s.HealthCheckHandler())
	r.Method(http.MethodPost, "/slack/command/ranking", Chain(s.RankingCommandHandler(), s.slackVerifyMiddleware))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(RateLimitMiddleware(s.loginLimiter)).Post("/login", s.LoginHandler())
			r.Post("/logout", s.LogoutHandler())
			r.Group(func(r chi.Router) {
				r.Use(s.sessionMiddleware)
				r.Get("/me", s.MeHandler())
				r.Post("/change-password", s.ChangePasswordHandler())
				r.Put("/profile", s.UpdateProfileHandler())
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)

			r.Get("/players", s.ListPlayersHandler())

			r.Route("/matches", func(r chi.Router) {
				r.Get("/", s.ListMatchesHandler())
				r.Post("/", s.CreateMatchHandler())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.GetMatchHandler())
					r.With(adminMiddleware).Delete("/", s.CancelMatchHandler())
					r.Get("/rounds", s.ListRoundsHandler())
					r.Post("/rounds", s.AddRoundHandler())
					r.Post("/rounds/undo", s.UndoRoundHandler())
					r.With(adminMiddleware).Delete("/rounds/{roundNumber}", s.DeleteRoundHandler())
					r.Post("/finish", s.FinishMatchHandler())
				})
			})

			r.Get("/stats/me", s.MyStatsHandler())
			r.Get("/stats/players/{id}", s.PlayerStatsHandler())
			r.Get("/ranking", s.RankingHandler())

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminMiddleware)
				r.Get("/players", s.AdminListPlayersHandler())
				r.Post("/players", s.AdminCreatePlayerHandler())
				r.Put("/players/{id}/name", s.AdminRenamePlayerHandler())
				r.Put("/players/{id}/role", s.AdminChangeRoleHandler())
				r.Put("/players/{id}/password", s.AdminResetPasswordHandler())
				r.Post("/ranking/announce", s.AnnounceRankingHandler())
			})
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

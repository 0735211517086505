package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/gardenal/internal/auth"
	"github.com/mauv0809/gardenal/internal/config"
	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/notifier"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/mauv0809/gardenal/internal/ranking"
)

type Server struct {
	Players        player.Store
	Ledger         *ledger.Service
	Ranking        *ranking.Service
	Tokens         auth.TokenService
	Notifier       notifier.Notifier
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         chi.Router

	loginLimiter *IPRateLimiter
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type roleRequest struct {
	Role string `json:"role"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type createPlayerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type createMatchRequest struct {
	TeamA []string `json:"teamA"`
	TeamB []string `json:"teamB"`
}

type addRoundRequest struct {
	PointsA *int `json:"pointsA"`
	PointsB *int `json:"pointsB"`
}

// playerRef is a roster entry resolved to a display name.
type playerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// matchResponse is a match with its rosters resolved to names.
type matchResponse struct {
	*ledger.Match
	TeamA []playerRef `json:"teamA"`
	TeamB []playerRef `json:"teamB"`
	Lisa  bool        `json:"lisa"`
	// LisaPlayers carries the credited roster when Lisa is true.
	LisaPlayers []string `json:"lisaPlayers"`
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
)

func NewHandler(
	authService ports.AuthService,
	authHandler *AuthHandler,
	referendumHandler *ReferendumHandler,
	voteHandler *VoteHandler,
	statsHandler *StatsHandler,
	mslrHandler *MSLRHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Public
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/mslr/referendums", mslrHandler.ListByStatus)
	r.Get("/mslr/referendum/{id}", mslrHandler.GetByNumber)

	// EC only
	r.Group(func(r chi.Router) {
		r.Use(Authenticator(authService))
		r.Use(RequireRole(domain.RoleEC))

		r.Post("/referendums", referendumHandler.Create)
		r.Get("/referendums", referendumHandler.ListForEC)
		r.Put("/referendums/{id}", referendumHandler.Edit)
		r.Patch("/referendums/{id}/status", referendumHandler.SetStatus)
		r.Get("/ec/stats", statsHandler.Stats)
		r.Get("/ec/overview", statsHandler.Overview)
	})

	// Voters only
	r.Group(func(r chi.Router) {
		r.Use(Authenticator(authService))
		r.Use(RequireRole(domain.RoleVoter))

		r.Get("/voter/referendums", referendumHandler.ListForVoter)
		r.Post("/vote", voteHandler.CastVote)
	})

	return r
}

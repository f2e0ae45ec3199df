package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	games := deps.Games
	broker := deps.Broker
	accounts := deps.Accounts
	secure := deps.CookieSecure

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Ruleta API", "/openapi.json", "/docs"))

	r.Route("/api", func(r chi.Router) {
		r.Use(identityMiddleware(logger, accounts, secure))

		r.Get("/categories", handleCategories(games))

		r.Get("/questions", handleListQuestions(games))
		r.Post("/questions", handleCreateQuestion(games))
		r.Delete("/questions/{id}", handleDeleteQuestion(games))

		r.Get("/game/state", handleGameState(games))
		r.Post("/game/spin", handleSpin(games))
		r.Post("/game/finish", handleFinishTurn(games))
		r.Post("/game/close", handleCloseResult(games))
		r.Put("/game/player", handleSetPlayer(games))
		r.Delete("/game", handleEndGame(games))
		r.Get("/game/events", handleEvents(games, broker))
		r.Get("/game/ws", handleGameWS(logger, games, broker))

		r.Post("/auth/register", handleRegister(logger, accounts, games, secure))
		r.Post("/auth/login", handleLogin(logger, accounts, games, secure))
		r.Post("/auth/logout", handleLogout(accounts, secure))
		r.Get("/auth/me", handleMe())
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}

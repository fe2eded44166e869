package routers

import (
	"mockinterview/api/internal/handlers"
	"mockinterview/api/internal/middleware"
	"mockinterview/api/internal/models"

	"github.com/go-chi/chi/v5"
)

func SessionRoutes(router *chi.Mux, sessionHandler *handlers.SessionHandler) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/topics", sessionHandler.ListTopicsHandler)

		r.Route("/sessions", func(r chi.Router) {
			r.With(middleware.ValidateRequest[*models.CreateSessionRequest]()).Post("/", sessionHandler.CreateSessionHandler)
			r.Get("/", sessionHandler.ListSessionsHandler)

			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetSessionHandler)
				r.Delete("/", sessionHandler.DeleteSessionHandler)
				r.Post("/turn", sessionHandler.CreateTurnHandler)
				r.Get("/history", sessionHandler.GetHistoryHandler)
				r.Post("/question", sessionHandler.QuestionHandler)
				r.With(middleware.ValidateRequest[*models.FeedbackRequest]()).Post("/feedback", sessionHandler.FeedbackHandler)
				r.Put("/end", sessionHandler.EndSessionHandler)
			})
		})
	})
}

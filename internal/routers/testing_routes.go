package routers

import (
	"mockinterview/api/internal/handlers"

	"github.com/go-chi/chi/v5"
)

// TestingRoutes mounts the destructive test-support endpoints. Callers only register them in development.
func TestingRoutes(router *chi.Mux, testingHandler *handlers.TestingHandler) {
	router.Post("/api/testing/clear-database", testingHandler.ClearDatabaseHandler)
}

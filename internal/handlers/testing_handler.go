package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mockinterview/api/internal/models"
	"mockinterview/api/internal/utils"
)

// TestingHandler serves development-only endpoints used to reset state between end-to-end runs.
type TestingHandler struct {
	store  DatabaseCleaner
	logger *zap.Logger
}

func NewTestingHandler(store DatabaseCleaner, logger *zap.Logger) *TestingHandler {
	return &TestingHandler{store: store, logger: logger}
}

func (h *TestingHandler) ClearDatabaseHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearDatabase(r.Context()); err != nil {
		h.logger.Error("Failed to clear database", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to clear database")
		return
	}
	h.logger.Warn("Database cleared")
	utils.JSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "Database cleared successfully"})
}

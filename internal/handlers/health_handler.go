package handlers

import (
	"context"
	"net/http"
	"time"

	"mockinterview/api/internal/config"
	"mockinterview/api/internal/llm"
	"mockinterview/api/internal/utils"
)

const (
	serviceName      = "mock-interview"
	readinessTimeout = 2 * time.Second
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

type HealthHandler struct {
	provider      llm.Provider
	promptManager TemplateLister
	database      Pinger
	config        *config.Config
}

func NewHealthHandler(provider llm.Provider, promptManager TemplateLister, database Pinger, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		provider:      provider,
		promptManager: promptManager,
		database:      database,
		config:        cfg,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": "1.0.0",
	})
}

// ReadyzHandler reports not_ready when a dependency is missing. A disabled AI provider
// still counts as ready since every AI call falls back.
func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true
	record := func(name string, ok bool, message string) {
		if ok {
			checks[name] = ReadinessCheck{Status: "ok"}
			return
		}
		checks[name] = ReadinessCheck{Status: "failed", Message: message}
		allChecksPass = false
	}

	record("provider", handler.provider != nil, "AI provider not initialized")

	switch {
	case handler.promptManager == nil:
		record("prompt_manager", false, "Prompt manager not initialized")
	case len(handler.promptManager.GetTemplates()) == 0:
		record("prompt_manager", false, "No prompt templates loaded")
	default:
		record("prompt_manager", true, "")
	}

	if handler.database == nil {
		record("database", false, "Database not initialized")
	} else {
		ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
		err := handler.database.Ping(ctx)
		cancel()
		if err != nil {
			record("database", false, "Database unreachable: "+err.Error())
		} else {
			record("database", true, "")
		}
	}

	record("configuration", handler.config != nil, "Configuration not loaded")

	response := ReadinessResponse{
		Service: serviceName,
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}

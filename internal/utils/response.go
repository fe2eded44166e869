package utils

import (
	"encoding/json"
	"net/http"

	"mockinterview/api/internal/models"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// JSONError writes a models.ErrorResponse with the given status
func JSONError(w http.ResponseWriter, statusCode int, code, message string) {
	JSON(w, statusCode, models.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"mockinterview/api/internal/models"
	"mockinterview/api/internal/utils"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const validatedRequestKey contextKey = "validated_request"

// request models implement this interface
type Validator interface {
	Validate() error
}

/*
tldr
- reads the JSON body of a request
- deserializes it into a Go struct (specific to that route)
- validates it using the struct's own Validate() method
- stores the validated struct in the request context
- passes control to the actual handler (which can safely assume the request is valid)
*/
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req, errResp := Bind[T](r)
			if errResp != nil {
				utils.JSON(w, http.StatusBadRequest, *errResp)
				return
			}

			ctx := context.WithValue(r.Context(), validatedRequestKey, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Bind decodes and validates the request body into a new T.
// Handlers that must run checks before validation call it directly.
// An empty body decodes as an empty object.
func Bind[T Validator](r *http.Request) (T, *models.ErrorResponse) {
	var req T
	reqType := reflect.TypeOf(req)
	if reqType.Kind() == reflect.Ptr {
		req = reflect.New(reqType.Elem()).Interface().(T)
	} else {
		req = reflect.New(reqType).Interface().(T)
	}

	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return req, &models.ErrorResponse{
			Code:    "invalid_json",
			Message: "Invalid JSON in request body",
		}
	}

	if err := req.Validate(); err != nil {
		// error is already an ErrorResponse, we use it directly
		if errResp, ok := err.(*models.ErrorResponse); ok {
			return req, errResp
		}
		return req, &models.ErrorResponse{
			Code:    "validation_error",
			Message: err.Error(),
		}
	}
	return req, nil
}

// GetValidatedRequest retrieves the validated request from context
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}

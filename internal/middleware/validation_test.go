package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mockinterview/api/internal/models"
)

type mockRequest struct {
	Value string `json:"value"`
}

func (m *mockRequest) Validate() error {
	switch m.Value {
	case "error_response":
		return &models.ErrorResponse{
			Code:    "validation_error",
			Message: "invalid",
			Details: []models.ValidationErrorDetail{{Field: "value", Reason: "bad"}},
		}
	case "generic_error":
		return errors.New("failed")
	default:
		return nil
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestValidateRequestSuccess(t *testing.T) {
	middlewareFn := ValidateRequest[*mockRequest]()
	called := false

	handler := middlewareFn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		req := GetValidatedRequest[*mockRequest](r)
		if req.Value != "ok" {
			t.Fatalf("expected value ok, got %s", req.Value)
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(`{"value":"ok"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestValidateRequestInvalidJSON(t *testing.T) {
	middlewareFn := ValidateRequest[*mockRequest]()
	handler := middlewareFn(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for invalid json")
	}))

	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(`{`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid json, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != "invalid_json" {
		t.Fatalf("expected invalid_json code, got %s", resp.Code)
	}
}

func TestValidateRequestValidationErrors(t *testing.T) {
	t.Run("error response keeps details", func(t *testing.T) {
		handler := ValidateRequest[*mockRequest]()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(`{"value":"error_response"}`))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for validation error, got %d", rec.Code)
		}
		resp := decodeError(t, rec)
		if len(resp.Details) != 1 || resp.Details[0].Field != "value" {
			t.Fatalf("expected field detail, got %+v", resp.Details)
		}
	})

	t.Run("generic error", func(t *testing.T) {
		handler := ValidateRequest[*mockRequest]()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(`{"value":"generic_error"}`))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for generic validation error, got %d", rec.Code)
		}
		if resp := decodeError(t, rec); resp.Code != "validation_error" || resp.Message != "failed" {
			t.Fatalf("unexpected error body: %+v", resp)
		}
	})
}

func TestBindEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", http.NoBody)

	got, errResp := Bind[*mockRequest](req)
	if errResp != nil {
		t.Fatalf("expected empty body to bind, got %+v", errResp)
	}
	if got == nil || got.Value != "" {
		t.Fatalf("expected zero-valued request, got %+v", got)
	}
}

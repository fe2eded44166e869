package llm

import (
	"context"
	"errors"
	"testing"

	"mockinterview/api/internal/models"
)

func TestProviderErrorError(t *testing.T) {
	err := &ProviderError{Provider: "gemini", Message: "failed"}
	if err.Error() != "gemini error: failed" {
		t.Fatalf("unexpected error message: %s", err.Error())
	}

	cause := errors.New("detail")
	wrapped := &ProviderError{Provider: "gemini", Message: "failed", Err: cause}
	if got := wrapped.Error(); got != "gemini error: failed (detail)" {
		t.Fatalf("unexpected wrapped error message: %s", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected ProviderError to unwrap to its cause")
	}
}

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("test_provider", func() (Provider, error) {
		return NewMockProvider(), nil
	})
	defer delete(providers, "test_provider")

	provider, err := NewProvider("test_provider")
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	if name := provider.GetProviderName(); name != "mock" {
		t.Fatalf("expected provider name mock, got %s", name)
	}

	if _, err := NewProvider("missing"); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestDisabledProviderAlwaysFails(t *testing.T) {
	reason := errors.New("GEMINI_API_KEY environment variable is required")
	provider := NewDisabledProvider("gemini", reason)

	_, err := provider.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "hi"})
	var provErr *ProviderError
	if !errors.As(err, &provErr) || provErr.Code != ErrCodeDisabled {
		t.Fatalf("expected disabled provider error, got %v", err)
	}
	if !errors.Is(err, reason) {
		t.Fatal("expected error to carry the configuration failure")
	}
	if provider.GetProviderName() != "gemini" {
		t.Fatalf("unexpected provider name %s", provider.GetProviderName())
	}
}

func TestMockProviderQueue(t *testing.T) {
	boom := errors.New("boom")
	mock := NewMockProvider(MockResponse{Content: "first"}, MockResponse{Err: boom})
	ctx := context.Background()

	resp, err := mock.GenerateContent(ctx, &models.GenerationRequest{Prompt: "a", RequestID: "r1"})
	if err != nil || resp.Content != "first" || resp.RequestID != "r1" {
		t.Fatalf("unexpected first response %+v, %v", resp, err)
	}
	if _, err := mock.GenerateContent(ctx, &models.GenerationRequest{Prompt: "b"}); !errors.Is(err, boom) {
		t.Fatalf("expected canned error, got %v", err)
	}
	if _, err := mock.GenerateContent(ctx, &models.GenerationRequest{Prompt: "c"}); err == nil {
		t.Fatal("expected error once the queue is empty")
	}
	if mock.CallCount() != 3 || mock.Calls[1].Prompt != "b" {
		t.Fatalf("expected recorded calls, got %+v", mock.Calls)
	}
}

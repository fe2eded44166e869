package llm

import (
	"context"
	"sync"

	"mockinterview/api/internal/models"
)

// MockResponse is one canned reply for MockProvider.
type MockResponse struct {
	Content string
	Err     error
}

// MockProvider returns canned responses in order and records every request.
// An exhausted queue behaves like an unavailable service.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []models.GenerationRequest
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) GenerateContent(_ context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, *req)
	if len(m.responses) == 0 {
		return nil, &ProviderError{Provider: "mock", Code: ErrCodeServiceDown, Message: "no canned response left"}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &models.GenerationResponse{
		Content:   resp.Content,
		RequestID: req.RequestID,
		Metadata:  models.GenerationMetadata{Provider: "mock", Model: "mock"},
	}, nil
}

func (m *MockProvider) GetProviderName() string {
	return "mock"
}

// CallCount reports how many requests the provider has received.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

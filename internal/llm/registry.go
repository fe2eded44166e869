package llm

import (
	"context"
	"fmt"

	"mockinterview/api/internal/models"
)

// defines a function that creates a new provider instance
type ProviderFactory func() (Provider, error)

// global registry of available providers
var providers = make(map[string]ProviderFactory)

// registers a provider factory with the given name
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// creates a new provider instance based on the given name
func NewProvider(name string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory()
}

// DisabledProvider stands in when no real provider could be configured.
// Every call fails, so callers serve their fallback content.
type DisabledProvider struct {
	Name   string
	Reason error
}

func NewDisabledProvider(name string, reason error) *DisabledProvider {
	return &DisabledProvider{Name: name, Reason: reason}
}

func (p *DisabledProvider) GenerateContent(context.Context, *models.GenerationRequest) (*models.GenerationResponse, error) {
	return nil, &ProviderError{
		Provider: p.Name,
		Code:     ErrCodeDisabled,
		Message:  "provider is not configured",
		Err:      p.Reason,
	}
}

func (p *DisabledProvider) GetProviderName() string {
	return p.Name
}

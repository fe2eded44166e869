package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"mockinterview/api/internal/llm"
	"mockinterview/api/internal/models"
)

const providerName = "gemini"

// Client represents a Gemini LLM client
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(ctx context.Context, config *Config) (*Client, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL, APIVersion: "v1beta"}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// GenerateContent sends a single prompt. A request schema switches the model to JSON output.
func (c *Client) GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	startTime := time.Now()

	var config *genai.GenerateContentConfig
	if req.Schema != nil {
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   buildSchema(req.Schema.Definition),
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, mapError(err)
	}
	if result == nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidResponse,
			Message:  "No response generated",
		}
	}

	// blank text is a valid answer; callers decide what an empty reply means
	return &models.GenerationResponse{
		Content:   strings.TrimSpace(result.Text()),
		RequestID: req.RequestID,
		Metadata: models.GenerationMetadata{
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
			Provider:       providerName,
			Model:          c.config.Model,
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

// buildSchema converts a JSON Schema definition map to a genai.Schema.
func buildSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	if t, ok := def["type"].(string); ok {
		schema.Type = mapType(t)
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}
	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if propDef, ok := v.(map[string]any); ok {
				schema.Properties[name] = buildSchema(propDef)
			}
		}
	}
	schema.Required = stringList(def["required"])
	schema.Enum = stringList(def["enum"])
	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildSchema(items)
	}
	return schema
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func mapType(t string) genai.Type {
	switch t {
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func mapError(err error) error {
	code := llm.ErrCodeServiceDown
	message := "Failed to generate content"

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code, message = llm.ErrCodeTimeout, "Request timed out"
	case apiStatus(err) == http.StatusTooManyRequests || isRateLimitError(err):
		code, message = llm.ErrCodeRateLimit, "Rate limit exceeded"
	case apiStatus(err) == http.StatusUnauthorized || apiStatus(err) == http.StatusForbidden:
		code, message = llm.ErrCodeAPIKey, "API key rejected"
	case apiStatus(err) == http.StatusBadRequest:
		code, message = llm.ErrCodeInvalidInput, "Request rejected"
	}

	return &llm.ProviderError{
		Provider: providerName,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}

// apiStatus returns the HTTP status of a genai API error, or 0.
func apiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota")
}

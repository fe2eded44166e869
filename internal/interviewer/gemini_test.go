package interviewer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mockinterview/api/internal/llm/gemini"
	"mockinterview/api/internal/models"
	"mockinterview/api/internal/prompts"
)

// newGeminiService points a real Gemini client at a local server that always answers with text.
func newGeminiService(t *testing.T, text string) *Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}}},
			},
		})
	}))
	t.Cleanup(server.Close)

	client, err := gemini.NewClient(context.Background(), &gemini.Config{APIKey: "test", Model: "test-model", BaseURL: server.URL})
	require.NoError(t, err)
	pm, err := prompts.NewPromptManager()
	require.NoError(t, err)
	return NewService(client, pm, zap.NewNop(), 5*time.Second)
}

func TestGenerateQuestionBlankGeminiTextAsksOpeningQuestion(t *testing.T) {
	svc := newGeminiService(t, "   ")

	question := svc.GenerateQuestion(context.Background(), "Backend Developer", "", nil)
	assert.Equal(t, "Tell me about yourself and why you're interested in this position.", question)
}

func TestGenerateQuestionFromGemini(t *testing.T) {
	svc := newGeminiService(t, " How does the Go scheduler work? ")

	question := svc.GenerateQuestion(context.Background(), "Go", "intermediate", sampleHistory())
	assert.Equal(t, "How does the Go scheduler work?", question)
}

func TestGenerateFeedbackBlankGeminiTextFallsBack(t *testing.T) {
	svc := newGeminiService(t, "")

	fb := svc.GenerateFeedback(context.Background(), "Q?", "A.", "Go", "", nil)
	assert.Equal(t, models.FallbackScore, fb.Score)
	assert.Equal(t, "Thank you for your answer. Consider providing more specific examples and technical details.", fb.Feedback)
}

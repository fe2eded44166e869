package interviewer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mockinterview/api/internal/llm"
	"mockinterview/api/internal/metrics"
	"mockinterview/api/internal/models"
	"mockinterview/api/internal/prompts"
	"mockinterview/api/internal/utils"
)

const (
	opQuestion = "question"
	opFeedback = "feedback"
	opSummary  = "summary"

	emptyHistory = "This is the start of the interview."

	openingQuestion  = "Tell me about yourself and why you're interested in this position."
	fallbackFeedback = "Thank you for your answer. Consider providing more specific examples and technical details."
	defaultFeedback  = "Good answer! Keep practicing to improve further."
	fallbackSummary  = "Interview session completed. Review the conversation history for detailed feedback."
	defaultSummary   = "Interview completed with good overall performance."
)

var fallbackRecommendations = []string{"Practice more technical questions", "Prepare specific examples"}

var feedbackSchema = &models.ResponseSchema{
	Name: "answer-feedback",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback":     map[string]any{"type": "string"},
			"score":        map[string]any{"type": "number"},
			"strengths":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"improvements": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"feedback", "score"},
	},
}

var summarySchema = &models.ResponseSchema{
	Name: "session-summary",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":             map[string]any{"type": "string"},
			"overallScore":        map[string]any{"type": "number"},
			"strengths":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"improvements":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"recommendations":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"technicalScore":      map[string]any{"type": "number"},
			"communicationScore":  map[string]any{"type": "number"},
			"problemSolvingScore": map[string]any{"type": "number"},
		},
		"required": []string{"summary", "overallScore", "recommendations"},
	},
}

// Service runs the interview prompts against an LLM provider.
// Its methods never fail: any provider, parse or schema error yields a fixed fallback.
type Service struct {
	provider llm.Provider
	prompts  *prompts.PromptManager
	logger   *zap.Logger
	timeout  time.Duration
}

func NewService(provider llm.Provider, pm *prompts.PromptManager, logger *zap.Logger, timeout time.Duration) *Service {
	return &Service{
		provider: provider,
		prompts:  pm,
		logger:   logger,
		timeout:  timeout,
	}
}

// ProviderName reports the backing provider, for readiness checks.
func (s *Service) ProviderName() string {
	return s.provider.GetProviderName()
}

// GenerateQuestion asks for the next interview question given the conversation so far.
func (s *Service) GenerateQuestion(ctx context.Context, topic, difficulty string, history []models.ConversationTurn) string {
	prompt, err := s.prompts.BuildPrompt(prompts.ModeQuestion, difficulty, prompts.Data{
		Topic:   topic,
		History: FormatHistory(history),
	})
	if err != nil {
		s.fallback(opQuestion, err)
		return topicFallbackQuestion(topic)
	}

	content, err := s.generate(ctx, prompt, nil)
	if err != nil {
		s.fallback(opQuestion, err)
		return topicFallbackQuestion(topic)
	}
	if content == "" {
		return openingQuestion
	}
	return content
}

// GenerateFeedback evaluates one answer. The returned score is always within [MinScore, MaxScore].
func (s *Service) GenerateFeedback(ctx context.Context, question, answer, topic, difficulty string, history []models.ConversationTurn) models.AnswerFeedback {
	prompt, err := s.prompts.BuildPrompt(prompts.ModeFeedback, difficulty, prompts.Data{
		Topic:    topic,
		History:  FormatHistory(history),
		Question: question,
		Answer:   answer,
	})
	if err != nil {
		s.fallback(opFeedback, err)
		return feedbackFallback()
	}

	content, err := s.generate(ctx, prompt, feedbackSchema)
	if err != nil {
		s.fallback(opFeedback, err)
		return feedbackFallback()
	}

	var parsed struct {
		Feedback     string   `json:"feedback"`
		Score        float64  `json:"score"`
		Strengths    []string `json:"strengths"`
		Improvements []string `json:"improvements"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.fallback(opFeedback, err)
		return feedbackFallback()
	}

	result := models.AnswerFeedback{
		Feedback:     strings.TrimSpace(parsed.Feedback),
		Score:        score(parsed.Score),
		Strengths:    nonNil(parsed.Strengths),
		Improvements: nonNil(parsed.Improvements),
	}
	if result.Feedback == "" {
		result.Feedback = defaultFeedback
	}
	return result
}

// GenerateSessionSummary produces the end-of-session report. All scores are within [MinScore, MaxScore].
func (s *Service) GenerateSessionSummary(ctx context.Context, topic, difficulty string, history []models.ConversationTurn) models.SessionSummary {
	prompt, err := s.prompts.BuildPrompt(prompts.ModeSummary, difficulty, prompts.Data{
		Topic:   topic,
		History: FormatHistory(history),
	})
	if err != nil {
		s.fallback(opSummary, err)
		return summaryFallback()
	}

	content, err := s.generate(ctx, prompt, summarySchema)
	if err != nil {
		s.fallback(opSummary, err)
		return summaryFallback()
	}

	var parsed struct {
		Summary             string   `json:"summary"`
		OverallScore        float64  `json:"overallScore"`
		Recommendations     []string `json:"recommendations"`
		TechnicalScore      *float64 `json:"technicalScore"`
		CommunicationScore  *float64 `json:"communicationScore"`
		ProblemSolvingScore *float64 `json:"problemSolvingScore"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.fallback(opSummary, err)
		return summaryFallback()
	}

	result := models.SessionSummary{
		Summary:             strings.TrimSpace(parsed.Summary),
		OverallScore:        score(parsed.OverallScore),
		Recommendations:     nonNil(parsed.Recommendations),
		TechnicalScore:      subScore(parsed.TechnicalScore),
		CommunicationScore:  subScore(parsed.CommunicationScore),
		ProblemSolvingScore: subScore(parsed.ProblemSolvingScore),
	}
	if result.Summary == "" {
		result.Summary = defaultSummary
	}
	return result
}

// generate calls the provider under the configured deadline and returns fence-stripped text.
// With a schema the text is also validated against it.
func (s *Service) generate(ctx context.Context, prompt string, schema *models.ResponseSchema) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.provider.GenerateContent(ctx, &models.GenerationRequest{
		Prompt:    prompt,
		RequestID: uuid.NewString(),
		Schema:    schema,
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("%s returned no response", s.provider.GetProviderName())
	}

	content := utils.StripFences(resp.Content)
	if schema != nil {
		if _, err := llm.ValidateJSON(schema, content); err != nil {
			return "", err
		}
	}
	return content, nil
}

func (s *Service) fallback(operation string, err error) {
	metrics.RecordFallback(operation)
	s.logger.Warn("AI generation failed, using fallback",
		zap.String("operation", operation),
		zap.String("provider", s.provider.GetProviderName()),
		zap.Error(err))
}

// FormatHistory renders turns as "Speaker: text" blocks, each followed by its feedback line when present.
func FormatHistory(history []models.ConversationTurn) string {
	if len(history) == 0 {
		return emptyHistory
	}
	blocks := make([]string, 0, len(history))
	for _, turn := range history {
		block := string(turn.Speaker) + ": " + turn.TextContent
		if turn.FeedbackContent != nil && *turn.FeedbackContent != "" {
			block += "\nFeedback: " + *turn.FeedbackContent
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

// CountUserTurns reports how many answers the candidate gave.
func CountUserTurns(history []models.ConversationTurn) int {
	n := 0
	for _, turn := range history {
		if turn.Speaker == models.SpeakerUser {
			n++
		}
	}
	return n
}

func topicFallbackQuestion(topic string) string {
	return fmt.Sprintf("Tell me about a challenging %s project you've worked on recently.", strings.ToLower(topic))
}

func feedbackFallback() models.AnswerFeedback {
	return models.AnswerFeedback{
		Feedback:     fallbackFeedback,
		Score:        models.FallbackScore,
		Strengths:    []string{},
		Improvements: []string{},
	}
}

func summaryFallback() models.SessionSummary {
	return models.SessionSummary{
		Summary:             fallbackSummary,
		OverallScore:        models.FallbackScore,
		Recommendations:     append([]string(nil), fallbackRecommendations...),
		TechnicalScore:      models.FallbackScore,
		CommunicationScore:  models.FallbackScore,
		ProblemSolvingScore: models.FallbackScore,
	}
}

// score treats a zero as "not scored" and bounds everything else.
func score(v float64) float64 {
	if v == 0 {
		return models.FallbackScore
	}
	return utils.ClampScore(v, models.MinScore, models.MaxScore)
}

func subScore(v *float64) float64 {
	if v == nil {
		return models.FallbackScore
	}
	return score(*v)
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

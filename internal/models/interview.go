package models

// AnswerFeedback is the evaluation of a single answer. Score is always within [MinScore, MaxScore].
type AnswerFeedback struct {
	Feedback     string   `json:"feedback"`
	Score        float64  `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// SessionSummary is the end-of-session report. All scores are within [MinScore, MaxScore].
type SessionSummary struct {
	Summary             string   `json:"summary"`
	OverallScore        float64  `json:"overallScore"`
	Recommendations     []string `json:"recommendations"`
	TechnicalScore      float64  `json:"technicalScore"`
	CommunicationScore  float64  `json:"communicationScore"`
	ProblemSolvingScore float64  `json:"problemSolvingScore"`
}

func (s SessionSummary) Metrics() *PerformanceMetrics {
	return &PerformanceMetrics{
		TechnicalScore:      s.TechnicalScore,
		CommunicationScore:  s.CommunicationScore,
		ProblemSolvingScore: s.ProblemSolvingScore,
		Recommendations:     s.Recommendations,
	}
}

// GenerationRequest is a single prompt sent to an LLM provider.
// When Schema is set the provider is asked for JSON matching it.
type GenerationRequest struct {
	Prompt    string
	RequestID string
	Schema    *ResponseSchema
}

// ResponseSchema names a JSON Schema definition for structured output.
type ResponseSchema struct {
	Name       string
	Definition map[string]any
}

type GenerationResponse struct {
	Content   string             `json:"content"`
	RequestID string             `json:"request_id"`
	Metadata  GenerationMetadata `json:"metadata"`
}

type GenerationMetadata struct {
	ProcessingTime int    `json:"processing_time_ms"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "talent",
		Subsystem: "ai",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of AI evaluation requests",
	}, []string{"model", "round_type"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talent",
		Subsystem: "ai",
		Name:      "evaluation_failures_total",
		Help:      "Number of AI evaluation failures",
	}, []string{"model", "round_type"})
)

// OpenAIConfig defines configuration options for the OpenAI evaluator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIEvaluator implements Evaluator against the OpenAI chat completion API.
type OpenAIEvaluator struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIEvaluator builds a new evaluator using the provided configuration.
func NewOpenAIEvaluator(cfg OpenAIConfig) (*OpenAIEvaluator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 768
	}

	tracer := otel.Tracer("github.com/sparrowhq/talent-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIEvaluator{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Evaluate sends the scoring request to OpenAI and parses the response.
func (e *OpenAIEvaluator) Evaluate(parent context.Context, input EvaluationInput) (EvaluationResult, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return EvaluationResult{}, ErrRoundNotAttempted
	}

	ctx, span := e.tracer.Start(parent, "openai.evaluate", trace.WithAttributes(
		attribute.String("model", e.cfg.Model),
		attribute.String("round_type", input.RoundType),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: evaluatorSystemPrompt(input.RoundType),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := e.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	aiDuration.WithLabelValues(e.cfg.Model, input.RoundType).Observe(duration.Seconds())
	if err != nil {
		aiFailures.WithLabelValues(e.cfg.Model, input.RoundType).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return EvaluationResult{}, fmt.Errorf("openai evaluate: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(e.cfg.Model, input.RoundType).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return EvaluationResult{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result, err := parseEvaluationResponse(content)
	if err != nil {
		aiFailures.WithLabelValues(e.cfg.Model, input.RoundType).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return EvaluationResult{}, err
	}

	result.Raw = map[string]interface{}{
		"usage": resp.Usage,
	}

	return result, nil
}

func evaluatorSystemPrompt(roundType string) string {
	switch roundType {
	case "GAMES_ARENA":
		return "You are an assessor scoring game-based hiring assessments. Respond with a JSON object containing " +
			"overall_percentage_score (0-100), summary, and an optional competency_scores object mapping competency " +
			"names to 0-100 scores. Score decision quality and consistency across game sessions."
	default:
		return "You are an interview assessor. Respond with a JSON object containing overall_percentage_score (0-100), " +
			"summary, and an optional competency_scores object mapping competency names to 0-100 scores. Score " +
			"communication, depth, and evidence of the listed competencies."
	}
}

func buildUserPrompt(input EvaluationInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Candidate\n")
	builder.WriteString(input.CandidateName)
	builder.WriteString("\n\n## Round\n")
	builder.WriteString(fmt.Sprintf("%s (%s)", input.RoundName, input.RoundType))
	if input.AssessmentID != "" {
		builder.WriteString("\n\n## Assessment\n")
		builder.WriteString(input.AssessmentID)
	}
	if input.BrandID != "" {
		builder.WriteString("\n\n## Brand\n")
		builder.WriteString(input.BrandID)
	}
	if len(input.Competencies) > 0 {
		builder.WriteString("\n\n## Competencies\n")
		builder.WriteString(strings.Join(input.Competencies, ", "))
	}
	builder.WriteString("\n\n## Transcript\n")
	builder.WriteString(input.Transcript)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func parseEvaluationResponse(content string) (EvaluationResult, error) {
	type payload struct {
		OverallPercentageScore float64                `json:"overall_percentage_score"`
		Summary                string                 `json:"summary"`
		CompetencyScores       map[string]interface{} `json:"competency_scores"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return EvaluationResult{}, fmt.Errorf("parse evaluation json: %w", err)
	}

	if data.OverallPercentageScore < 0 {
		data.OverallPercentageScore = 0
	}
	if data.OverallPercentageScore > 100 {
		data.OverallPercentageScore = 100
	}

	return EvaluationResult{
		OverallPercentageScore: data.OverallPercentageScore,
		Summary:                data.Summary,
		CompetencyScores:       data.CompetencyScores,
	}, nil
}

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/emotipal/psychobot/core/logger"
	"github.com/emotipal/psychobot/internal/exam"
)

const defaultTimeout = 60 * time.Second

const systemPrompt = "You are an expert clinical psychologist and career coach. " +
	"Analyze the provided psychometric test answers and respond with a single valid JSON object."

// Report is the structured narrative the model returns. Every field is
// a free-text paragraph intended to be shown to the user as-is.
type Report struct {
	Typology        string `json:"typology"`
	CareerRoadmap   string `json:"career_roadmap"`
	Lifestyle       string `json:"lifestyle"`
	Locations       string `json:"locations"`
	SocialRelations string `json:"social_relations"`
}

// Service turns an aggregated answer payload into a narrative report
// via an OpenAI-compatible chat completion API.
type Service struct {
	client *openai.Client
	cfg    Config
}

// New builds the service from configuration.
func New(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("analysis: api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// NewWithClient injects a prebuilt client; used by tests.
func NewWithClient(client *openai.Client, cfg Config) *Service {
	return &Service{client: client, cfg: cfg}
}

// Analyze submits the aggregated payload and parses the model's JSON
// answer. The call is bounded by the configured timeout; it is treated
// as opaque and fallible - no retries here, the caller decides.
func (s *Service) Analyze(ctx context.Context, payload *exam.ResultPayload) (*Report, error) {
	timeout := defaultTimeout
	if s.cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(s.cfg.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt, err := buildPrompt(payload)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.model(),
		Temperature: s.cfg.temperature(),
		MaxTokens:   s.cfg.maxTokens(),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		logger.Error(ctx, "service.analysis", "analysis.request",
			slog.String("status", "fail"),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("analysis request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("analysis: empty response from model %s", s.cfg.model())
	}

	var report Report
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &report); err != nil {
		return nil, fmt.Errorf("analysis: parse model response: %w", err)
	}

	logger.Info(ctx, "service.analysis", "analysis.request",
		slog.String("status", "ok"),
		slog.Int("count", resp.Usage.TotalTokens),
		slog.Duration("duration", logger.Took(start)),
	)
	return &report, nil
}

func buildPrompt(payload *exam.ResultPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("analysis: marshal payload: %w", err)
	}
	return fmt.Sprintf(`Analyze the following psychometric data: %s

Provide a comprehensive report as a JSON object with exactly these string keys:
1. "typology": deep psychological profile and traits.
2. "career_roadmap": compatible jobs and the reasons they fit.
3. "lifestyle": recommendations for music genres, movies, and books.
4. "locations": 3 best countries or cities for this person.
5. "social_relations": communication strengths and weaknesses.

Return ONLY the JSON object.`, data), nil
}

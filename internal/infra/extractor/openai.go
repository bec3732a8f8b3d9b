package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/resilience/circuitbreaker"
	"opportunity-scout/internal/resilience/retry"
	"opportunity-scout/internal/utils/text"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAI implements the crawl.Extractor interface using OpenAI's chat
// completion API. It includes circuit breaker and retry logic for improved
// reliability.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	categories      []string
	metricsRecorder ExtractionMetricsRecorder
}

// NewOpenAI creates an OpenAI extractor with the given API key and
// configuration.
func NewOpenAI(apiKey string, config Config) *OpenAI {
	if config.Model == "" {
		config.Model = defaultOpenAIModel
	}
	categories := LoadCategories(config.CategoryFile)

	slog.Info("Initialized OpenAI extractor",
		slog.String("model", config.Model),
		slog.Duration("timeout", config.Timeout),
		slog.Int("categories", len(categories)))

	return &OpenAI{
		client:          openai.NewClient(apiKey),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          config,
		categories:      categories,
		metricsRecorder: NewPrometheusExtractionMetrics(),
	}
}

// ParseContentToOpportunities extracts opportunity candidates from page
// content using OpenAI.
func (o *OpenAI) ParseContentToOpportunities(ctx context.Context, content string, maxResults int) ([]entity.ParsedOpportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var response string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doExtract(ctx, content, maxResults)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}
		response = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		o.metricsRecorder.RecordOutcome(false)
		return nil, fmt.Errorf("openai extraction failed after retries: %w", retryErr)
	}

	o.metricsRecorder.RecordOutcome(true)
	candidates := parseOpportunities(response, o.categories)
	if len(candidates) == 0 && len(response) > 0 {
		o.metricsRecorder.RecordParseFailure()
	}
	o.metricsRecorder.RecordItems(len(candidates))
	return candidates, nil
}

// doExtract performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doExtract(ctx context.Context, content string, maxResults int) (string, error) {
	requestID := uuid.New().String()

	truncated := truncateContent(content, o.config.MaxContentChars)
	prompt := buildPrompt(truncated, maxResults, o.categories, time.Now())

	slog.InfoContext(ctx, "Starting extraction",
		slog.String("request_id", requestID),
		slog.Int("content_chars", text.CountRunes(truncated)),
		slog.Int("max_results", maxResults))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})

	duration := time.Since(start)
	o.metricsRecorder.RecordDuration(duration)

	if err != nil {
		slog.ErrorContext(ctx, "Extraction failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "OpenAI API returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("openai api returned empty response")
	}

	text := resp.Choices[0].Message.Content

	slog.InfoContext(ctx, "Extraction completed",
		slog.String("request_id", requestID),
		slog.Int("response_length", len(text)),
		slog.Duration("duration", duration))

	return text, nil
}

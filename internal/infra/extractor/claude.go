package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/resilience/circuitbreaker"
	"opportunity-scout/internal/resilience/retry"
	"opportunity-scout/internal/utils/text"
)

// defaultClaudeModel is used when EXTRACTOR_MODEL is unset.
var defaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Claude implements the crawl.Extractor interface using Anthropic's Claude
// API. It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	categories      []string
	metricsRecorder ExtractionMetricsRecorder
}

// NewClaude creates a Claude extractor with the given API key and
// configuration. The category list is loaded once at construction.
func NewClaude(apiKey string, config Config) *Claude {
	if config.Model == "" {
		config.Model = defaultClaudeModel
	}
	categories := LoadCategories(config.CategoryFile)

	slog.Info("Initialized Claude extractor",
		slog.String("model", config.Model),
		slog.Duration("timeout", config.Timeout),
		slog.Int("categories", len(categories)))

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          config,
		categories:      categories,
		metricsRecorder: NewPrometheusExtractionMetrics(),
	}
}

// ParseContentToOpportunities extracts opportunity candidates from page
// content using Claude. API failures are retried with backoff behind a
// circuit breaker; a response that survives the transport but cannot be
// parsed yields an empty slice, not an error.
func (c *Claude) ParseContentToOpportunities(ctx context.Context, content string, maxResults int) ([]entity.ParsedOpportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var response string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doExtract(ctx, content, maxResults)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}
		response = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		c.metricsRecorder.RecordOutcome(false)
		return nil, fmt.Errorf("claude extraction failed after retries: %w", retryErr)
	}

	c.metricsRecorder.RecordOutcome(true)
	candidates := parseOpportunities(response, c.categories)
	if len(candidates) == 0 && len(response) > 0 {
		c.metricsRecorder.RecordParseFailure()
	}
	c.metricsRecorder.RecordItems(len(candidates))
	return candidates, nil
}

// doExtract performs the actual API call without retry or circuit breaker.
func (c *Claude) doExtract(ctx context.Context, content string, maxResults int) (string, error) {
	requestID := uuid.New().String()

	truncated := truncateContent(content, c.config.MaxContentChars)
	prompt := buildPrompt(truncated, maxResults, c.categories, time.Now())

	slog.InfoContext(ctx, "Starting extraction",
		slog.String("request_id", requestID),
		slog.Int("content_chars", text.CountRunes(truncated)),
		slog.Int("max_results", maxResults))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)
	c.metricsRecorder.RecordDuration(duration)

	if err != nil {
		slog.ErrorContext(ctx, "Extraction failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		slog.ErrorContext(ctx, "Claude API returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		slog.ErrorContext(ctx, "Claude API returned unexpected response type",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	slog.InfoContext(ctx, "Extraction completed",
		slog.String("request_id", requestID),
		slog.Int("response_length", len(textBlock.Text)),
		slog.Duration("duration", duration))

	return textBlock.Text, nil
}

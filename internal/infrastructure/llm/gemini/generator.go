package gemini

import (
	"context"
	"errors"
	"net"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/resilience"
)

// Generator adapts the raw client to the answer generation port, running each
// call through retries and a circuit breaker.
type Generator struct {
	client      *Client
	executor    *resilience.Executor
	temperature float64
	maxTokens   int
}

func NewGenerator(client *Client, executor *resilience.Executor, temperature float64, maxTokens int) *Generator {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Generator{
		client:      client,
		executor:    executor,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	var answer string
	err := g.executor.Execute(ctx, "gemini.generate", func(ctx context.Context) error {
		text, err := g.client.GenerateContent(ctx, prompt, g.temperature, g.maxTokens)
		if err != nil {
			return err
		}
		answer = text
		return nil
	}, classifyGenerationError)
	if err != nil {
		return "", domain.WrapError(domain.ErrGeneration, "generate answer", err)
	}
	return answer, nil
}

// classifyGenerationError marks rate limits, server errors and transport
// failures as retryable. Client-side errors and cancellations are not.
func classifyGenerationError(err error) resilience.ErrorClassification {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		retryable := statusErr.StatusCode == 429 || statusErr.StatusCode >= 500
		return resilience.ErrorClassification{Retryable: retryable, RecordFailure: retryable}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

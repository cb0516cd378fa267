// Package openai embeds text through an OpenAI-compatible embeddings API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/embedder"
)

const apiKeyEnv = "OPENAI_API_KEY"

type Embedder struct {
	client *openai.Client
	model  string

	mu       sync.Mutex
	ready    bool
	probeErr error
	dim      int
}

// New builds an embedder for the given model. baseURL overrides the API host
// for OpenAI-compatible servers; empty means api.openai.com.
func New(model, baseURL string) (*Embedder, error) {
	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return nil, domain.WrapError(domain.ErrEmbedding, "init openai embedder",
			fmt.Errorf("%s is not set", apiKeyEnv))
	}

	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Embedder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (e *Embedder) ModelID() string {
	return "openai/" + e.model
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := e.ensureReady(ctx); err != nil {
		return nil, err
	}
	vectors, err := e.embed(ctx, texts)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbedding, "embed", err)
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, domain.WrapError(domain.ErrEmbedding, "embed query", fmt.Errorf("empty embedding result"))
	}
	return vectors[0], nil
}

// ensureReady probes the backend once. Backend failures latch; a probe cut
// short by the caller's context leaves the embedder unprobed so the next
// caller tries again.
func (e *Embedder) ensureReady(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ready {
		return nil
	}
	if e.probeErr != nil {
		return e.probeErr
	}

	vectors, err := e.embed(ctx, []string{"readiness probe"})
	if err != nil {
		wrapped := domain.WrapError(domain.ErrEmbedding, "probe embedding model "+e.ModelID(), err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return wrapped
		}
		e.probeErr = wrapped
		return e.probeErr
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		e.probeErr = domain.WrapError(domain.ErrEmbedding, "probe embedding model "+e.ModelID(),
			fmt.Errorf("model returned an empty vector"))
		return e.probeErr
	}

	e.dim = len(vectors[0])
	e.ready = true
	return nil
}

func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings request: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings/texts mismatch: %d/%d", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		v := make([]float32, len(item.Embedding))
		copy(v, item.Embedding)
		embedder.Normalize(v)
		vectors[i] = v
	}
	return vectors, nil
}

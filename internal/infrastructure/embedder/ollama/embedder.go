// Package ollama embeds text through a local Ollama server.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/embedder"
)

// Embedder calls the Ollama /api/embed endpoint. The backing model is probed
// lazily on first use; a failed probe is reported once and sticks, since a
// missing model is a configuration problem, not a transient fault. A probe
// cut short by the caller's context does not stick: the next caller probes
// again.
type Embedder struct {
	baseURL    string
	model      string
	httpClient *http.Client

	mu       sync.Mutex
	ready    bool
	probeErr error
	dim      int
}

func New(baseURL, model string) *Embedder {
	return &Embedder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (e *Embedder) ModelID() string {
	return "ollama/" + e.model
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

// ensureReady embeds a short probe string to verify that the configured
// model is loadable and to learn its dimensionality. Real backend failures
// latch; a cancellation of the probing caller's context is returned but
// leaves the embedder unprobed.
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
	request := map[string]any{
		"model": e.model,
		"input": texts,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := e.postJSON(ctx, "/api/embed", request, &response); err != nil {
		return nil, err
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embeddings/texts mismatch: %d/%d", len(response.Embeddings), len(texts))
	}
	for _, v := range response.Embeddings {
		embedder.Normalize(v)
	}
	return response.Embeddings, nil
}

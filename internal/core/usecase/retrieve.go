package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/core/ports"
)

// Retriever embeds a question with the same model that produced the index
// vectors and returns the nearest chunks.
type Retriever struct {
	embedder ports.Embedder
	index    ports.SearchIndex
}

func NewRetriever(embedder ports.Embedder, index ports.SearchIndex) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrRetrieval, "retrieve", fmt.Errorf("question is empty"))
	}
	if k <= 0 {
		return nil, domain.WrapError(domain.ErrRetrieval, "retrieve", fmt.Errorf("k must be positive, got %d", k))
	}

	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrieval, "retrieve", err)
	}

	hits, err := r.index.Search(ctx, vector, k)
	if err != nil {
		return nil, err
	}
	return hits, nil
}

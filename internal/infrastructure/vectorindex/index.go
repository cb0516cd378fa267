// Package vectorindex provides an exact nearest-neighbor index over chunk
// embeddings, persisted wholesale to a local directory.
package vectorindex

import (
	"context"
	"fmt"
	"sort"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/embedder"
)

// Index maps each chunk to its embedding vector and answers top-k similarity
// queries by brute-force inner product. Vectors are normalized at
// construction so inner product equals cosine similarity. The index is
// immutable after construction; Search needs no locking.
type Index struct {
	modelID string
	dim     int
	chunks  []domain.Chunk
	vectors [][]float32
}

// New builds an index from chunks and their vectors. The two slices are
// parallel; vectors must share one dimensionality and come from the model
// identified by modelID. Each vector is copied and L2-normalized, so callers
// may pass raw embeddings.
func New(chunks []domain.Chunk, vectors [][]float32, modelID string) (*Index, error) {
	if len(chunks) == 0 {
		return nil, domain.WrapError(domain.ErrIngestion, "build index", fmt.Errorf("no chunks to index"))
	}
	if len(chunks) != len(vectors) {
		return nil, domain.WrapError(domain.ErrIngestion, "build index",
			fmt.Errorf("chunks/vectors mismatch: %d/%d", len(chunks), len(vectors)))
	}
	if modelID == "" {
		return nil, domain.WrapError(domain.ErrIngestion, "build index", fmt.Errorf("missing embedding model id"))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, domain.WrapError(domain.ErrIngestion, "build index", fmt.Errorf("zero-dimensional vectors"))
	}

	owned := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, domain.WrapError(domain.ErrIngestion, "build index",
				fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim))
		}
		cp := make([]float32, dim)
		copy(cp, v)
		embedder.Normalize(cp)
		owned[i] = cp
	}

	ownedChunks := make([]domain.Chunk, len(chunks))
	copy(ownedChunks, chunks)

	return &Index{
		modelID: modelID,
		dim:     dim,
		chunks:  ownedChunks,
		vectors: owned,
	}, nil
}

func (ix *Index) Size() int       { return len(ix.chunks) }
func (ix *Index) Dimensions() int { return ix.dim }
func (ix *Index) ModelID() string { return ix.modelID }

// Search returns the k chunks nearest to the query vector, ordered by
// descending similarity. When the index holds fewer than k chunks all of
// them are returned.
func (ix *Index) Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, domain.WrapError(domain.ErrRetrieval, "search index", fmt.Errorf("k must be positive, got %d", k))
	}
	if len(query) != ix.dim {
		return nil, domain.WrapError(domain.ErrRetrieval, "search index",
			fmt.Errorf("query dimension %d, index dimension %d", len(query), ix.dim))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type scored struct {
		pos   int
		score float64
	}
	scores := make([]scored, len(ix.vectors))
	for i, v := range ix.vectors {
		var dot float64
		for j := 0; j < ix.dim; j++ {
			dot += float64(query[j]) * float64(v[j])
		}
		scores[i] = scored{pos: i, score: dot}
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].pos < scores[j].pos
	})

	if k > len(scores) {
		k = len(scores)
	}
	results := make([]domain.RetrievedChunk, k)
	for i := 0; i < k; i++ {
		chunk := ix.chunks[scores[i].pos]
		results[i] = domain.RetrievedChunk{
			Source: chunk.Source,
			Text:   chunk.Text,
			Index:  chunk.Index,
			Score:  scores[i].score,
		}
	}
	return results, nil
}

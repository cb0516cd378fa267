package vectorindex

import (
	"context"
	"testing"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
)

func mustChunk(t *testing.T, text string, index, total int) domain.Chunk {
	t.Helper()
	c, err := domain.NewChunk(text, "bns.pdf", index, total)
	if err != nil {
		t.Fatalf("NewChunk(%q): %v", text, err)
	}
	return c
}

func threeChunkIndex(t *testing.T) *Index {
	t.Helper()
	chunks := []domain.Chunk{
		mustChunk(t, "chunk A", 0, 3),
		mustChunk(t, "chunk B", 1, 3),
		mustChunk(t, "chunk C", 2, 3),
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	ix, err := New(chunks, vectors, "ollama/all-minilm")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return ix
}

func TestNewRejectsEmptyChunkSet(t *testing.T) {
	_, err := New(nil, nil, "ollama/all-minilm")
	if !domain.IsKind(err, domain.ErrIngestion) {
		t.Fatalf("expected ingestion error kind, got %v", err)
	}
}

func TestNewRejectsMixedDimensions(t *testing.T) {
	chunks := []domain.Chunk{
		mustChunk(t, "a", 0, 2),
		mustChunk(t, "b", 1, 2),
	}
	_, err := New(chunks, [][]float32{{1, 0}, {1, 0, 0}}, "ollama/all-minilm")
	if err == nil {
		t.Fatalf("expected error for mixed dimensions")
	}
}

func TestSearchReturnsNearestChunkFirst(t *testing.T) {
	ix := threeChunkIndex(t)

	// Closest to chunk B.
	results, err := ix.Search(context.Background(), []float32{0.1, 0.9, 0.1}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Text != "chunk B" {
		t.Fatalf("expected chunk B, got %q", results[0].Text)
	}
}

func TestSearchOrdersByDescendingScore(t *testing.T) {
	ix := threeChunkIndex(t)

	results, err := ix.Search(context.Background(), []float32{0.8, 0.5, 0.1}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("results not ordered by descending score: %v", results)
		}
	}
	if results[0].Text != "chunk A" {
		t.Fatalf("expected chunk A first, got %q", results[0].Text)
	}
}

func TestNewNormalizesRawVectors(t *testing.T) {
	chunks := []domain.Chunk{
		mustChunk(t, "long but off-axis", 0, 2),
		mustChunk(t, "short but aligned", 1, 2),
	}
	// The first vector has far greater magnitude; under cosine similarity
	// the second still wins for a query along the y axis.
	vectors := [][]float32{
		{10, 1, 0},
		{0, 2, 0},
	}
	ix, err := New(chunks, vectors, "ollama/all-minilm")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := ix.Search(context.Background(), []float32{0, 1, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].Text != "short but aligned" {
		t.Fatalf("expected cosine ranking, got %q first", results[0].Text)
	}
	if results[0].Score < 0.999 || results[0].Score > 1.001 {
		t.Fatalf("expected unit score for an aligned vector, got %v", results[0].Score)
	}
}

func TestSearchSaturatesAtIndexSize(t *testing.T) {
	ix := threeChunkIndex(t)

	results, err := ix.Search(context.Background(), []float32{1, 0, 0}, 100)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected all 3 chunks, got %d", len(results))
	}
}

func TestSearchRejectsNonPositiveK(t *testing.T) {
	ix := threeChunkIndex(t)
	for _, k := range []int{0, -1} {
		if _, err := ix.Search(context.Background(), []float32{1, 0, 0}, k); !domain.IsKind(err, domain.ErrRetrieval) {
			t.Fatalf("expected retrieval error for k=%d, got %v", k, err)
		}
	}
}

func TestSearchRejectsDimensionMismatch(t *testing.T) {
	ix := threeChunkIndex(t)
	if _, err := ix.Search(context.Background(), []float32{1, 0}, 1); !domain.IsKind(err, domain.ErrRetrieval) {
		t.Fatalf("expected retrieval error for dimension mismatch, got %v", err)
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
)

func someHits(n int) []domain.RetrievedChunk {
	hits := make([]domain.RetrievedChunk, n)
	for i := range hits {
		hits[i] = domain.RetrievedChunk{
			Source: fmt.Sprintf("doc%d.pdf", i),
			Text:   fmt.Sprintf("passage %d", i),
			Score:  1 - float64(i)*0.1,
		}
	}
	return hits
}

func TestQueryReturnsAnswerWithSources(t *testing.T) {
	retriever := &fakeRetriever{hits: someHits(3)}
	generator := &fakeGenerator{answer: "Thirty days, per Section 12."}

	uc := NewQueryUseCase(retriever, &fakeAssembler{}, generator, 5, nil)
	answer, err := uc.Query(context.Background(), "notice period?", 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if answer.Text != "Thirty days, per Section 12." {
		t.Fatalf("unexpected answer text %q", answer.Text)
	}
	if answer.Degraded {
		t.Fatalf("answer should not be degraded")
	}
	if len(answer.Sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(answer.Sources))
	}
	if retriever.lastK != 3 {
		t.Fatalf("expected k=3 passed to retriever, got %d", retriever.lastK)
	}
}

func TestQueryUsesDefaultTopK(t *testing.T) {
	retriever := &fakeRetriever{hits: someHits(5)}
	uc := NewQueryUseCase(retriever, &fakeAssembler{}, &fakeGenerator{answer: "ok"}, 5, nil)

	if _, err := uc.Query(context.Background(), "q?", 0); err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if retriever.lastK != 5 {
		t.Fatalf("expected default k=5, got %d", retriever.lastK)
	}
}

func TestQueryDegradesWhenGenerationFails(t *testing.T) {
	retriever := &fakeRetriever{hits: someHits(2)}
	generator := &fakeGenerator{err: domain.WrapError(domain.ErrGeneration, "generate", errors.New("model offline"))}

	uc := NewQueryUseCase(retriever, &fakeAssembler{}, generator, 5, nil)
	answer, err := uc.Query(context.Background(), "q?", 2)
	if err != nil {
		t.Fatalf("generation failure must not fail the query, got %v", err)
	}
	if !answer.Degraded {
		t.Fatalf("answer should be marked degraded")
	}
	if answer.Text == "" {
		t.Fatalf("degraded answer needs explanatory text")
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("degraded answer must keep sources, got %d", len(answer.Sources))
	}
}

func TestQueryFailsWhenRetrievalFails(t *testing.T) {
	retriever := &fakeRetriever{err: domain.WrapError(domain.ErrRetrieval, "retrieve", errors.New("index gone"))}
	generator := &fakeGenerator{answer: "never"}

	uc := NewQueryUseCase(retriever, &fakeAssembler{}, generator, 5, nil)
	if _, err := uc.Query(context.Background(), "q?", 2); !domain.IsKind(err, domain.ErrRetrieval) {
		t.Fatalf("expected retrieval error kind, got %v", err)
	}
	if len(generator.prompts) != 0 {
		t.Fatalf("generator must not run after retrieval failure")
	}
}

func TestRetrieverRejectsBlankQuestion(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{}, &fakeIndex{})
	if _, err := r.Retrieve(context.Background(), "   ", 5); !domain.IsKind(err, domain.ErrRetrieval) {
		t.Fatalf("expected retrieval error kind, got %v", err)
	}
}

func TestRetrieverWrapsEmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{embedErr: domain.WrapError(domain.ErrEmbedding, "embed", errors.New("backend down"))}
	r := NewRetriever(embedder, &fakeIndex{})

	_, err := r.Retrieve(context.Background(), "q?", 5)
	if !domain.IsKind(err, domain.ErrRetrieval) {
		t.Fatalf("expected retrieval error kind, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrEmbedding) {
		t.Fatalf("embedding cause should remain inspectable, got %v", err)
	}
}

func TestRetrieverPassesKThrough(t *testing.T) {
	index := &fakeIndex{hits: someHits(4)}
	r := NewRetriever(&fakeEmbedder{}, index)

	hits, err := r.Retrieve(context.Background(), "q?", 2)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if index.lastK != 2 || len(hits) != 2 {
		t.Fatalf("expected k=2, got lastK=%d len=%d", index.lastK, len(hits))
	}
}

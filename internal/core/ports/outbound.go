package ports

import (
	"context"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
)

// CorpusSource enumerates the source documents available for ingestion.
type CorpusSource interface {
	List(ctx context.Context) ([]string, error)
}

// DocumentLoader extracts the full text of one source document.
type DocumentLoader interface {
	Load(ctx context.Context, path string) (domain.Document, error)
}

// Chunker splits an extracted document into overlapping chunks.
type Chunker interface {
	Split(doc domain.Document) ([]domain.Chunk, error)
}

// Embedder builds vectors for chunk batches and for query text. The same
// model must serve both sides; ModelID identifies it so a persisted index can
// be validated against the embedder that will query it.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ModelID() string
}

// SearchIndex performs nearest-neighbor search over embedded chunks. The
// index is read-only once built; Search is safe for concurrent use.
type SearchIndex interface {
	Search(ctx context.Context, queryVector []float32, k int) ([]domain.RetrievedChunk, error)
	Size() int
	Dimensions() int
	ModelID() string
}

// IndexFactory assembles a searchable index from parallel chunk and vector
// slices.
type IndexFactory func(chunks []domain.Chunk, vectors [][]float32, modelID string) (SearchIndex, error)

// IndexStore persists a built index and loads it back wholesale.
type IndexStore interface {
	Exists() bool
	Save(ctx context.Context, index SearchIndex) error
	Load(ctx context.Context) (SearchIndex, error)
}

// Retriever wraps embedder and index into the per-query top-k contract.
type Retriever interface {
	Retrieve(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error)
}

// PromptAssembler formats retrieved passages and the question into one
// instruction string for the generation model.
type PromptAssembler interface {
	Assemble(question string, passages []domain.RetrievedChunk) (string, error)
}

// AnswerGenerator invokes the generation model with an assembled prompt.
type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/core/ports"
)

// IngestObserver receives ingestion progress for metric collection.
type IngestObserver interface {
	FinishDocument(service string, duration time.Duration, err error)
	AddChunks(service string, count int)
	ObserveEmbedBatch(service string, duration time.Duration)
}

type noopObserver struct{}

func (noopObserver) FinishDocument(string, time.Duration, error) {}
func (noopObserver) AddChunks(string, int)                       {}
func (noopObserver) ObserveEmbedBatch(string, time.Duration)     {}

// IngestUseCase builds a fresh search index from every document in the
// corpus. Unreadable documents are skipped with a warning; an empty corpus
// or a corpus that yields no chunks fails the build.
type IngestUseCase struct {
	corpus    ports.CorpusSource
	loader    ports.DocumentLoader
	chunker   ports.Chunker
	embedder  ports.Embedder
	newIndex  ports.IndexFactory
	batchSize int
	service   string
	logger    *slog.Logger
	observer  IngestObserver
}

func NewIngestUseCase(
	corpus ports.CorpusSource,
	loader ports.DocumentLoader,
	chunker ports.Chunker,
	embedder ports.Embedder,
	newIndex ports.IndexFactory,
	batchSize int,
	service string,
	logger *slog.Logger,
	observer IngestObserver,
) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &IngestUseCase{
		corpus:    corpus,
		loader:    loader,
		chunker:   chunker,
		embedder:  embedder,
		newIndex:  newIndex,
		batchSize: batchSize,
		service:   service,
		logger:    logger,
		observer:  observer,
	}
}

func (uc *IngestUseCase) BuildIndex(ctx context.Context) (ports.SearchIndex, error) {
	paths, err := uc.corpus.List(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrIngestion, "build index", err)
	}
	if len(paths) == 0 {
		return nil, domain.WrapError(domain.ErrIngestion, "build index", fmt.Errorf("corpus contains no documents"))
	}

	var chunks []domain.Chunk
	loaded := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, domain.WrapError(domain.ErrIngestion, "build index", err)
		}

		start := time.Now()
		docChunks, err := uc.ingestDocument(ctx, path)
		uc.observer.FinishDocument(uc.service, time.Since(start), err)
		if err != nil {
			uc.logger.Warn("document skipped", "path", path, "error", err)
			continue
		}

		loaded++
		chunks = append(chunks, docChunks...)
		uc.observer.AddChunks(uc.service, len(docChunks))
		uc.logger.Info("document chunked", "path", path, "chunks", len(docChunks))
	}

	if loaded == 0 {
		return nil, domain.WrapError(domain.ErrIngestion, "build index", fmt.Errorf("no document in the corpus could be loaded"))
	}
	if len(chunks) == 0 {
		return nil, domain.WrapError(domain.ErrIngestion, "build index", fmt.Errorf("corpus produced no chunks"))
	}

	vectors, err := uc.embedAll(ctx, chunks)
	if err != nil {
		return nil, domain.WrapError(domain.ErrIngestion, "build index", err)
	}

	index, err := uc.newIndex(chunks, vectors, uc.embedder.ModelID())
	if err != nil {
		return nil, err
	}

	uc.logger.Info("index built",
		"documents", loaded,
		"chunks", index.Size(),
		"dimensions", index.Dimensions(),
		"model", index.ModelID(),
	)
	return index, nil
}

func (uc *IngestUseCase) ingestDocument(ctx context.Context, path string) ([]domain.Chunk, error) {
	doc, err := uc.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return uc.chunker.Split(doc)
}

func (uc *IngestUseCase) embedAll(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += uc.batchSize {
		end := start + uc.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		began := time.Now()
		batch, err := uc.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch starting at chunk %d: %w", start, err)
		}
		uc.observer.ObserveEmbedBatch(uc.service, time.Since(began))

		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

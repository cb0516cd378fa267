package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/core/ports"
)

// State is the lifecycle phase of the pipeline.
type State string

const (
	StateUninitialized State = "UNINITIALIZED"
	StateIndexLoading  State = "INDEX_LOADING"
	StateIngesting     State = "INGESTING"
	StateIndexBuilt    State = "INDEX_BUILT"
	StateReady         State = "READY"
	StateFailed        State = "FAILED"
)

// Pipeline owns the startup sequence and gates queries on readiness. It
// prefers a persisted index; when none is usable it rebuilds from the corpus.
type Pipeline struct {
	ingest    ports.IndexBuilder
	store     ports.IndexStore
	embedder  ports.Embedder
	assembler ports.PromptAssembler
	generator ports.AnswerGenerator
	topK      int
	logger    *slog.Logger

	mu    sync.RWMutex
	state State
	query ports.QueryService
}

func NewPipeline(
	ingest ports.IndexBuilder,
	store ports.IndexStore,
	embedder ports.Embedder,
	assembler ports.PromptAssembler,
	generator ports.AnswerGenerator,
	topK int,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		ingest:    ingest,
		store:     store,
		embedder:  embedder,
		assembler: assembler,
		generator: generator,
		topK:      topK,
		logger:    logger,
		state:     StateUninitialized,
	}
}

func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Start moves the pipeline to READY or FAILED. It may be called once.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateUninitialized {
		return fmt.Errorf("pipeline already started (state %s)", p.state)
	}

	index, err := p.acquireIndex(ctx)
	if err != nil {
		p.state = StateFailed
		return err
	}

	retriever := NewRetriever(p.embedder, index)
	p.query = NewQueryUseCase(retriever, p.assembler, p.generator, p.topK, p.logger)
	p.state = StateReady
	p.logger.Info("pipeline ready",
		"chunks", index.Size(),
		"dimensions", index.Dimensions(),
		"model", index.ModelID(),
	)
	return nil
}

func (p *Pipeline) acquireIndex(ctx context.Context) (ports.SearchIndex, error) {
	p.state = StateIndexLoading

	if p.store.Exists() {
		index, err := p.loadIndex(ctx)
		if err == nil {
			return index, nil
		}
		p.logger.Warn("persisted index unusable, rebuilding from corpus", "error", err)
	} else {
		p.logger.Info("no persisted index found, building from corpus")
	}

	p.state = StateIngesting
	index, err := p.ingest.BuildIndex(ctx)
	if err != nil {
		return nil, err
	}
	p.state = StateIndexBuilt

	if err := p.store.Save(ctx, index); err != nil {
		// The in-memory index still serves queries; only persistence failed.
		p.logger.Error("failed to persist rebuilt index", "error", err)
	}
	return index, nil
}

func (p *Pipeline) loadIndex(ctx context.Context) (ports.SearchIndex, error) {
	index, err := p.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if index.ModelID() != p.embedder.ModelID() {
		return nil, domain.WrapError(domain.ErrIndexLoad, "load index",
			fmt.Errorf("index was built with model %q but the embedder is %q", index.ModelID(), p.embedder.ModelID()))
	}
	p.logger.Info("persisted index loaded",
		"chunks", index.Size(),
		"dimensions", index.Dimensions(),
		"model", index.ModelID(),
	)
	return index, nil
}

// Query answers one question. It fails with a not-ready error in every state
// except READY.
func (p *Pipeline) Query(ctx context.Context, question string, k int) (*domain.Answer, error) {
	p.mu.RLock()
	state, query := p.state, p.query
	p.mu.RUnlock()

	if state != StateReady {
		return nil, domain.WrapError(domain.ErrNotReady, "query",
			fmt.Errorf("pipeline is %s, not READY", state))
	}
	return query.Query(ctx, question, k)
}

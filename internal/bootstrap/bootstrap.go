// Package bootstrap wires configuration into the concrete pipeline.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/nyayasahayak/legal-assistant/internal/config"
	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/core/ports"
	"github.com/nyayasahayak/legal-assistant/internal/core/usecase"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/chunking"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/corpus"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/embedder/ollama"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/embedder/openai"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/llm/gemini"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/loader"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/prompting"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/resilience"
	"github.com/nyayasahayak/legal-assistant/internal/infrastructure/vectorindex"
	"github.com/nyayasahayak/legal-assistant/internal/observability/logging"
)

type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Pipeline *usecase.Pipeline
	Ingest   *usecase.IngestUseCase
	Store    ports.IndexStore
	Embedder ports.Embedder
}

// Options selects what New wires beyond the ingestion path.
type Options struct {
	Service string

	// IngestObserver may be nil when the caller does not collect
	// ingestion metrics.
	IngestObserver usecase.IngestObserver

	// Generation wires the Gemini client and the query pipeline. The
	// ingest command leaves it off so index rebuilds run without
	// generation credentials; App.Pipeline is nil in that case.
	Generation bool
}

// New builds the adapters for one service.
func New(cfg config.Config, opts Options) (*App, error) {
	logger := logging.NewJSONLogger(opts.Service, cfg.LogLevel)
	slog.SetDefault(logger)

	source, err := corpus.New(cfg.CorpusDir)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	store := vectorindex.NewStore(cfg.IndexDir)

	ingest := usecase.NewIngestUseCase(
		source,
		loader.NewPDFLoader(),
		chunker,
		embedder,
		newSearchIndex,
		cfg.EmbedBatchSize,
		opts.Service,
		logger,
		opts.IngestObserver,
	)

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Ingest:   ingest,
		Store:    store,
		Embedder: embedder,
	}
	if !opts.Generation {
		return app, nil
	}

	geminiClient, err := gemini.NewClient(gemini.ClientOptions{
		BaseURL: cfg.GeminiBaseURL,
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	generator := gemini.NewGenerator(
		geminiClient,
		resilience.NewExecutor(resilience.DefaultConfig()),
		cfg.GeminiTemperature,
		cfg.GeminiMaxTokens,
	)

	app.Pipeline = usecase.NewPipeline(
		ingest,
		store,
		embedder,
		prompting.NewAssembler(cfg.PromptTokenBudget),
		generator,
		cfg.TopK,
		logger,
	)
	return app, nil
}

func newSearchIndex(chunks []domain.Chunk, vectors [][]float32, modelID string) (ports.SearchIndex, error) {
	return vectorindex.New(chunks, vectors, modelID)
}

func newEmbedder(cfg config.Config) (ports.Embedder, error) {
	switch cfg.EmbedderBackend {
	case "ollama":
		return ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel), nil
	case "openai":
		return openai.New(cfg.OpenAIEmbedModel, cfg.OpenAIBaseURL)
	default:
		return nil, fmt.Errorf("unknown embedder backend %q", cfg.EmbedderBackend)
	}
}

package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/core/ports"
)

const degradedAnswerText = "The relevant passages were found, but the answer could not be generated right now. Please try again shortly; the sources below may help in the meantime."

var errNoPassages = errors.New("no passages matched the question")

// QueryUseCase runs one question through retrieval, prompt assembly and
// generation. A generation failure after successful retrieval yields a
// degraded answer that still carries the sources.
type QueryUseCase struct {
	retriever ports.Retriever
	assembler ports.PromptAssembler
	generator ports.AnswerGenerator
	topK      int
	logger    *slog.Logger
}

func NewQueryUseCase(
	retriever ports.Retriever,
	assembler ports.PromptAssembler,
	generator ports.AnswerGenerator,
	topK int,
	logger *slog.Logger,
) *QueryUseCase {
	if topK <= 0 {
		topK = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryUseCase{
		retriever: retriever,
		assembler: assembler,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

func (uc *QueryUseCase) Query(ctx context.Context, question string, k int) (*domain.Answer, error) {
	if k <= 0 {
		k = uc.topK
	}

	hits, err := uc.retriever.Retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, domain.WrapError(domain.ErrRetrieval, "query", errNoPassages)
	}

	prompt, err := uc.assembler.Assemble(question, hits)
	if err != nil {
		return nil, err
	}

	text, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		uc.logger.Error("answer generation failed, returning sources only",
			"question_len", len(question),
			"sources", len(hits),
			"error", err,
		)
		return &domain.Answer{
			Question: question,
			Text:     degradedAnswerText,
			Degraded: true,
			Sources:  hits,
		}, nil
	}

	return &domain.Answer{
		Question: question,
		Text:     text,
		Sources:  hits,
	}, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/core/ports"
)

type fakeCorpus struct {
	paths []string
	err   error
}

func (f *fakeCorpus) List(context.Context) ([]string, error) {
	return f.paths, f.err
}

type fakeLoader struct {
	texts map[string]string
	fail  map[string]bool
}

func (f *fakeLoader) Load(_ context.Context, path string) (domain.Document, error) {
	if f.fail[path] {
		return domain.Document{}, domain.WrapError(domain.ErrIngestion, "load", fmt.Errorf("unreadable %s", path))
	}
	return domain.Document{Path: path, Name: path, Text: f.texts[path], Pages: 1}, nil
}

// fakeChunker emits one chunk per line of the document text.
type fakeChunker struct{}

func (fakeChunker) Split(doc domain.Document) ([]domain.Chunk, error) {
	lines := strings.Split(strings.TrimSpace(doc.Text), "\n")
	var out []domain.Chunk
	for _, line := range lines {
		if line == "" {
			continue
		}
		out = append(out, domain.Chunk{Text: line, Source: doc.Name})
	}
	for i := range out {
		out[i].Index = i
		out[i].Total = len(out)
	}
	return out, nil
}

// fakeEmbedder returns a constant-dimension vector derived from text length.
type fakeEmbedder struct {
	model      string
	embedErr   error
	embedCalls [][]string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	f.embedCalls = append(f.embedCalls, texts)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) ModelID() string {
	if f.model == "" {
		return "fake/model"
	}
	return f.model
}

type fakeIndex struct {
	hits      []domain.RetrievedChunk
	searchErr error
	model     string
	dim       int
	lastK     int
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, k int) ([]domain.RetrievedChunk, error) {
	f.lastK = k
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if k > len(f.hits) {
		k = len(f.hits)
	}
	return f.hits[:k], nil
}

func (f *fakeIndex) Size() int       { return len(f.hits) }
func (f *fakeIndex) Dimensions() int { return f.dim }
func (f *fakeIndex) ModelID() string { return f.model }

type fakeStore struct {
	index   ports.SearchIndex
	loadErr error
	saveErr error
	saved   ports.SearchIndex
}

func (f *fakeStore) Exists() bool {
	return f.index != nil || f.loadErr != nil
}

func (f *fakeStore) Save(_ context.Context, index ports.SearchIndex) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = index
	return nil
}

func (f *fakeStore) Load(context.Context) (ports.SearchIndex, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.index, nil
}

type fakeBuilder struct {
	index ports.SearchIndex
	err   error
	calls int
}

func (f *fakeBuilder) BuildIndex(context.Context) (ports.SearchIndex, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.index, nil
}

type fakeRetriever struct {
	hits  []domain.RetrievedChunk
	err   error
	lastK int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievedChunk, error) {
	f.lastK = k
	return f.hits, f.err
}

type fakeAssembler struct {
	err error
}

func (f *fakeAssembler) Assemble(question string, passages []domain.RetrievedChunk) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("prompt(%s, %d passages)", question, len(passages)), nil
}

type fakeGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func testIndexFactory(chunks []domain.Chunk, vectors [][]float32, modelID string) (ports.SearchIndex, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("length mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}
	hits := make([]domain.RetrievedChunk, len(chunks))
	for i, c := range chunks {
		hits[i] = domain.RetrievedChunk{Source: c.Source, Text: c.Text, Index: c.Index}
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	return &fakeIndex{hits: hits, model: modelID, dim: dim}, nil
}

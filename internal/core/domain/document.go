package domain

import (
	"errors"
	"fmt"
)

// Document is a source file after text extraction. It is created once during
// ingestion and never mutated afterwards.
type Document struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}

// Chunk is the unit of embedding and retrieval: a bounded, overlapping
// substring of one document.
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Index  int    `json:"index"`
	Total  int    `json:"total"`
}

// NewChunk validates chunk invariants at construction time.
func NewChunk(text, source string, index, total int) (Chunk, error) {
	if text == "" {
		return Chunk{}, errors.New("chunk text is empty")
	}
	if source == "" {
		return Chunk{}, errors.New("chunk source is empty")
	}
	if index < 0 || index >= total {
		return Chunk{}, fmt.Errorf("chunk index %d out of range [0, %d)", index, total)
	}
	return Chunk{
		Text:   text,
		Source: source,
		Index:  index,
		Total:  total,
	}, nil
}

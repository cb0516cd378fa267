// Package chunking splits extracted document text into overlapping chunks.
package chunking

import (
	"strings"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
)

// boundaries in preference order: paragraph, line, sentence, word. A hard
// character cut is the fallback when no boundary exists in the window.
var boundaries = []string{"\n\n", "\n", ". ", " "}

// Splitter produces chunks of at most Size runes where consecutive chunks
// overlap by Overlap runes. Splitting is deterministic: the same text and
// parameters always yield the same chunk sequence.
type Splitter struct {
	Size    int
	Overlap int
}

func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 5
	}
	return &Splitter{
		Size:    size,
		Overlap: overlap,
	}
}

func (s *Splitter) Split(doc domain.Document) ([]domain.Chunk, error) {
	pieces := s.windows([]rune(doc.Text))

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunk, err := domain.NewChunk(piece, doc.Name, i, len(pieces))
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func (s *Splitter) windows(runes []rune) []string {
	if len(runes) == 0 {
		return nil
	}

	var out []string
	start := 0
	for {
		end := start + s.Size
		if end >= len(runes) {
			if piece := strings.TrimSpace(string(runes[start:])); piece != "" {
				out = append(out, piece)
			}
			return out
		}

		cut := s.cutPoint(runes, start, end)
		if piece := strings.TrimSpace(string(runes[start:cut])); piece != "" {
			out = append(out, piece)
		}

		next := cut - s.Overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
}

// cutPoint returns the rune index to end the current window at, preferring
// the latest boundary in the second half of the window so chunks stay close
// to the target size.
func (s *Splitter) cutPoint(runes []rune, start, end int) int {
	window := runes[start:end]
	floor := s.Size / 2
	for _, sep := range boundaries {
		if idx := lastBoundary(window, []rune(sep)); idx >= floor {
			return start + idx
		}
	}
	return end
}

// lastBoundary returns the rune index just past the last occurrence of sep
// in window, or -1 when sep does not occur.
func lastBoundary(window, sep []rune) int {
	for i := len(window) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if window[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i + len(sep)
		}
	}
	return -1
}

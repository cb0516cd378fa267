package chunking

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
)

func testDoc(text string) domain.Document {
	return domain.Document{Path: "/corpus/bns.pdf", Name: "bns.pdf", Text: text}
}

func legalText(sentences int) string {
	var sb strings.Builder
	for i := 1; i <= sentences; i++ {
		fmt.Fprintf(&sb, "Section %d of the code describes offence number %d and its punishment in detail. ", i, i)
	}
	return strings.TrimSpace(sb.String())
}

func TestSplitIsDeterministic(t *testing.T) {
	s := NewSplitter(300, 60)
	doc := testDoc(legalText(40))

	first, err := s.Split(doc)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	second, err := s.Split(doc)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitShortTextYieldsOneChunk(t *testing.T) {
	s := NewSplitter(1000, 200)
	chunks, err := s.Split(testDoc("Section 302: punishment for murder."))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 || chunks[0].Total != 1 {
		t.Fatalf("bad position metadata: index=%d total=%d", chunks[0].Index, chunks[0].Total)
	}
}

func TestSplitEmptyTextYieldsNoChunks(t *testing.T) {
	s := NewSplitter(1000, 200)
	for _, text := range []string{"", "   \n\n   \t  "} {
		chunks, err := s.Split(testDoc(text))
		if err != nil {
			t.Fatalf("Split(%q) error = %v", text, err)
		}
		if len(chunks) != 0 {
			t.Fatalf("expected no chunks for %q, got %d", text, len(chunks))
		}
	}
}

func TestSplitRespectsSizeAndMetadata(t *testing.T) {
	s := NewSplitter(250, 50)
	chunks, err := s.Split(testDoc(legalText(60)))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if got := len([]rune(c.Text)); got > 250 {
			t.Fatalf("chunk %d exceeds size: %d runes", i, got)
		}
		if c.Text == "" {
			t.Fatalf("chunk %d is empty", i)
		}
		if c.Index != i || c.Total != len(chunks) {
			t.Fatalf("chunk %d has bad position metadata: index=%d total=%d", i, c.Index, c.Total)
		}
		if c.Source != "bns.pdf" {
			t.Fatalf("chunk %d has wrong source %q", i, c.Source)
		}
	}
}

// Consecutive chunks must overlap: each chunk starts inside its predecessor
// so concatenating the unique spans reconstructs the text.
func TestSplitCoversTextWithOverlap(t *testing.T) {
	s := NewSplitter(200, 40)
	text := legalText(50)
	chunks, err := s.Split(testDoc(text))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	prevPos := -1
	prevEnd := 0
	for i, c := range chunks {
		pos := strings.Index(text, c.Text)
		if pos < 0 {
			t.Fatalf("chunk %d is not a substring of the source text", i)
		}
		if pos <= prevPos {
			t.Fatalf("chunk %d out of order: pos %d after %d", i, pos, prevPos)
		}
		if pos > prevEnd {
			t.Fatalf("gap before chunk %d: starts at %d, previous ended at %d", i, pos, prevEnd)
		}
		prevPos = pos
		prevEnd = pos + len(c.Text)
	}
	if prevEnd < len(text)-1 {
		t.Fatalf("tail of text not covered: coverage ends at %d of %d", prevEnd, len(text))
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 400) + " " + strings.Repeat("b", 299)
	para2 := strings.Repeat("c", 600)
	s := NewSplitter(1000, 100)

	chunks, err := s.Split(testDoc(para1 + "\n\n" + para2))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != para1 {
		t.Fatalf("expected first chunk to end at the paragraph break, got %d runes", len([]rune(chunks[0].Text)))
	}
}

func TestNewSplitterNormalizesDegenerateOverlap(t *testing.T) {
	s := NewSplitter(100, 500)
	if s.Overlap >= s.Size {
		t.Fatalf("overlap %d not normalized below size %d", s.Overlap, s.Size)
	}
}

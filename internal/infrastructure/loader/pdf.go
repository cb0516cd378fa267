// Package loader extracts plain text from source PDF files.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
)

// PDFLoader reads a PDF and returns its pages concatenated with newline
// separators. A document that yields no extractable text is an error; the
// ingestion usecase logs it and continues with the remaining corpus.
type PDFLoader struct{}

func NewPDFLoader() *PDFLoader {
	return &PDFLoader{}
}

func (l *PDFLoader) Load(ctx context.Context, path string) (domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return domain.Document{}, domain.WrapError(domain.ErrIngestion, "open pdf", err)
	}
	defer f.Close()

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return domain.Document{}, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return domain.Document{}, domain.WrapError(domain.ErrIngestion, fmt.Sprintf("extract page %d", i), err)
		}
		sb.WriteString(text)
		if i < numPages {
			sb.WriteByte('\n')
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return domain.Document{}, domain.WrapError(domain.ErrIngestion, "extract text", errors.New("no extractable text"))
	}

	return domain.Document{
		Path:  path,
		Name:  filepath.Base(path),
		Text:  sb.String(),
		Pages: numPages,
	}, nil
}

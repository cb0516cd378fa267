package ports

import (
	"context"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
)

// QueryService is the inbound contract the external UI layer calls.
type QueryService interface {
	Query(ctx context.Context, question string, k int) (*domain.Answer, error)
}

// IndexBuilder is the inbound contract for (re)building the persisted index.
type IndexBuilder interface {
	BuildIndex(ctx context.Context) (SearchIndex, error)
}

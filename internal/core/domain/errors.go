package domain

import (
	"errors"
	"fmt"
)

// Error kinds of the pipeline. Components return errors wrapped with one of
// these; the orchestrator is the only place that translates them into the
// user-facing result shape.
var (
	// ErrIngestion: no usable source documents, unreadable PDFs, zero
	// extractable chunks. Fatal to the build phase.
	ErrIngestion = errors.New("ingestion failed")

	// ErrIndexLoad: persisted index missing, corrupt, or built with an
	// incompatible embedding model. Recoverable by re-ingestion when source
	// documents are still available.
	ErrIndexLoad = errors.New("index load failed")

	// ErrEmbedding: the embedding backend cannot be reached or probed. Almost
	// always a configuration problem; not retried.
	ErrEmbedding = errors.New("embedding unavailable")

	// ErrRetrieval: invalid search parameters or an empty index. Treated as a
	// programming error in a correctly built pipeline.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration: auth, network, rate limit, or malformed model response.
	// Recoverable at call level; retrieved sources are still returned.
	ErrGeneration = errors.New("generation failed")

	// ErrNotReady: query was called while the pipeline is not in the READY
	// state. A programming error, distinct from runtime failures.
	ErrNotReady = errors.New("pipeline not ready")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

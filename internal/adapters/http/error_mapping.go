package httpadapter

import (
	"net/http"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrNotReady):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicErrorMessage keeps backend details out of client responses.
func publicErrorMessage(err error, status int) string {
	switch status {
	case http.StatusServiceUnavailable:
		if domain.IsKind(err, domain.ErrNotReady) {
			return "the service is still starting, try again shortly"
		}
		return "the service is temporarily unavailable"
	case http.StatusBadGateway:
		return "the answer model is unavailable"
	default:
		return "internal error"
	}
}

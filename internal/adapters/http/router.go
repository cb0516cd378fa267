// Package httpadapter exposes the query pipeline over HTTP.
package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nyayasahayak/legal-assistant/internal/core/ports"
	"github.com/nyayasahayak/legal-assistant/internal/core/usecase"
	"github.com/nyayasahayak/legal-assistant/internal/observability/metrics"
)

const maxQuestionBytes = 16 << 10

// QueryPipeline is the slice of the pipeline the router needs.
type QueryPipeline interface {
	ports.QueryService
	State() usecase.State
}

type Router struct {
	pipeline QueryPipeline
	metrics  *metrics.HTTPServerMetrics
	logger   *slog.Logger
	service  string

	rateLimitRPS   float64
	rateLimitBurst int
	maxConcurrent  int
	maxQueueWait   time.Duration
}

type RouterOptions struct {
	Service        string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxConcurrent  int
	MaxQueueWait   time.Duration
}

func NewRouter(pipeline QueryPipeline, m *metrics.HTTPServerMetrics, logger *slog.Logger, opts RouterOptions) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Service == "" {
		opts.Service = "api"
	}
	if opts.MaxQueueWait <= 0 {
		opts.MaxQueueWait = 2 * time.Second
	}
	return &Router{
		pipeline:       pipeline,
		metrics:        m,
		logger:         logger,
		service:        opts.Service,
		rateLimitRPS:   opts.RateLimitRPS,
		rateLimitBurst: opts.RateLimitBurst,
		maxConcurrent:  opts.MaxConcurrent,
		maxQueueWait:   opts.MaxQueueWait,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/query", rt.query)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxConcurrent, rt.maxQueueWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	handler = rt.accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	state := rt.pipeline.State()
	status := http.StatusOK
	if state != usecase.StateReady {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{
		"status": healthStatus(state),
		"state":  string(state),
	})
}

func healthStatus(state usecase.State) string {
	switch state {
	case usecase.StateReady:
		return "ok"
	case usecase.StateFailed:
		return "failed"
	default:
		return "starting"
	}
}

type queryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

type sourceDocument struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

type queryResponse struct {
	Answer          string           `json:"answer"`
	Degraded        bool             `json:"degraded,omitempty"`
	SourceDocuments []sourceDocument `json:"source_documents"`
}

func (rt *Router) query(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req queryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQuestionBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}
	if req.TopK < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "top_k must not be negative"})
		return
	}

	start := time.Now()
	answer, err := rt.pipeline.Query(r.Context(), req.Question, req.TopK)
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.RecordQuery(rt.service, "failed", 0, time.Since(start))
		}
		status := mapErrorToHTTPStatus(err)
		rt.logger.Error("query failed",
			"request_id", requestIDFromContext(r.Context()),
			"status", status,
			"error", err,
		)
		writeJSON(w, status, map[string]string{"error": publicErrorMessage(err, status)})
		return
	}

	outcome := "answered"
	if answer.Degraded {
		outcome = "degraded"
	}
	if rt.metrics != nil {
		rt.metrics.RecordQuery(rt.service, outcome, len(answer.Sources), time.Since(start))
	}

	resp := queryResponse{
		Answer:   answer.Text,
		Degraded: answer.Degraded,
	}
	resp.SourceDocuments = make([]sourceDocument, 0, len(answer.Sources))
	for _, s := range answer.Sources {
		resp.SourceDocuments = append(resp.SourceDocuments, sourceDocument{
			Source: s.Source,
			Text:   s.Text,
			Score:  s.Score,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

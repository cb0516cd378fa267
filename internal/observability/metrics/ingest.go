package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type IngestMetrics struct {
	registry *prometheus.Registry

	documentTotal    *prometheus.CounterVec
	documentDuration *prometheus.HistogramVec
	chunkTotal       *prometheus.CounterVec
	embedDuration    *prometheus.HistogramVec
}

func NewIngestMetrics(service string) *IngestMetrics {
	registry := prometheus.NewRegistry()

	documentTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nyaya",
			Subsystem: "ingest",
			Name:      "documents_total",
			Help:      "Total ingested documents by status.",
		},
		[]string{"service", "status"},
	)
	documentDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nyaya",
			Subsystem: "ingest",
			Name:      "document_duration_seconds",
			Help:      "Per-document load and chunk duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	chunkTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nyaya",
			Subsystem: "ingest",
			Name:      "chunks_total",
			Help:      "Total chunks produced by ingestion.",
		},
		[]string{"service"},
	)
	embedDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nyaya",
			Subsystem: "ingest",
			Name:      "embed_batch_duration_seconds",
			Help:      "Embedding batch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"service"},
	)

	registry.MustRegister(documentTotal, documentDuration, chunkTotal, embedDuration)

	return &IngestMetrics{
		registry:         registry,
		documentTotal:    documentTotal,
		documentDuration: documentDuration,
		chunkTotal:       chunkTotal,
		embedDuration:    embedDuration,
	}
}

func (m *IngestMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *IngestMetrics) FinishDocument(service string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.documentTotal.WithLabelValues(service, status).Inc()
	m.documentDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *IngestMetrics) AddChunks(service string, count int) {
	m.chunkTotal.WithLabelValues(service).Add(float64(count))
}

func (m *IngestMetrics) ObserveEmbedBatch(service string, duration time.Duration) {
	m.embedDuration.WithLabelValues(service).Observe(duration.Seconds())
}

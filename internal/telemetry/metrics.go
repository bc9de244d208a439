package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter      metric.Int64Counter
	RequestDuration     metric.Float64Histogram
	SearchCounter       metric.Int64Counter
	SummaryCounter      metric.Int64Counter
	EmbeddingDuration   metric.Float64Histogram
	CircuitBreakerState metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("nevis-search-api")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	searchCounter, err := meter.Int64Counter(
		"search.requests.total",
		metric.WithDescription("Total search requests by type"),
	)
	if err != nil {
		return nil, err
	}

	summaryCounter, err := meter.Int64Counter(
		"summary.requests.total",
		metric.WithDescription("Total summary requests by outcome"),
	)
	if err != nil {
		return nil, err
	}

	embeddingDuration, err := meter.Float64Histogram(
		"openai.embedding.duration",
		metric.WithDescription("Embedding call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	circuitBreakerState, err := meter.Int64Counter(
		"circuit_breaker.state_changes",
		metric.WithDescription("Circuit breaker state changes"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:      requestCounter,
		RequestDuration:     requestDuration,
		SearchCounter:       searchCounter,
		SummaryCounter:      summaryCounter,
		EmbeddingDuration:   embeddingDuration,
		CircuitBreakerState: circuitBreakerState,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordSearch records a search request by type
func (m *Metrics) RecordSearch(searchType string, semantic bool) {
	attrs := []attribute.KeyValue{
		attribute.String("search.type", searchType),
		attribute.Bool("search.semantic", semantic),
	}

	m.SearchCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordSummary records a summary request outcome ("cached", "generated", "fallback")
func (m *Metrics) RecordSummary(outcome string) {
	attrs := []attribute.KeyValue{
		attribute.String("summary.outcome", outcome),
	}

	m.SummaryCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordEmbedding records embedding call duration
func (m *Metrics) RecordEmbedding(duration float64, success bool) {
	attrs := []attribute.KeyValue{
		attribute.Bool("openai.success", success),
	}

	m.EmbeddingDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordCircuitBreakerState records circuit breaker state changes
func (m *Metrics) RecordCircuitBreakerState(service, state string) {
	attrs := []attribute.KeyValue{
		attribute.String("service", service),
		attribute.String("state", state),
	}

	m.CircuitBreakerState.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

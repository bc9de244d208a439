package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nevis-search-api/internal/ai"
	"nevis-search-api/internal/logger"
	"nevis-search-api/internal/store"
	"nevis-search-api/internal/telemetry"
	"nevis-search-api/models"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// SummaryService produces document summaries with a two-level cache: the
// summary record persisted on the document is authoritative, Redis is a
// read-through fast path. The cache key includes max_length, so summaries
// at different lengths coexist.
type SummaryService struct {
	documents store.DocumentStore
	provider  ai.Provider
	cache     *redis.Client // nil disables the fast path
	ttl       time.Duration
	metrics   *telemetry.Metrics
}

// SummaryResult reports how a summary was produced.
type SummaryResult struct {
	Summary     string
	Cached      bool
	AIGenerated bool
}

func NewSummaryService(documents store.DocumentStore, provider ai.Provider, cache *redis.Client, ttl time.Duration, metrics *telemetry.Metrics) *SummaryService {
	return &SummaryService{
		documents: documents,
		provider:  provider,
		cache:     cache,
		ttl:       ttl,
		metrics:   metrics,
	}
}

// Summarize returns a summary of the document at most maxLength characters
// long. Repeated calls with the same maxLength serve the stored summary;
// regenerate forces a fresh one. A failing provider falls back to an
// extractive summary instead of erroring.
func (s *SummaryService) Summarize(ctx context.Context, id models.DocumentID, maxLength int, regenerate bool) (models.Document, SummaryResult, error) {
	tracer := otel.Tracer("summary-service")
	ctx, span := tracer.Start(ctx, "summary.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("document.id", id.String()),
		attribute.Int("summary.max_length", maxLength),
		attribute.Bool("summary.regenerate", regenerate),
	)

	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		return models.Document{}, SummaryResult{}, err
	}

	if !regenerate {
		if record, ok := s.lookupCached(ctx, doc, maxLength); ok {
			span.SetAttributes(attribute.Bool("summary.cached", true))
			s.recordOutcome("cached")
			return doc, SummaryResult{
				Summary:     record.Text,
				Cached:      true,
				AIGenerated: record.AIGenerated,
			}, nil
		}
	}

	var summary string
	var aiGenerated bool
	if len(doc.Content) <= maxLength {
		// Content already fits the budget: serve it verbatim, but store a
		// record so the next identical request is a cache hit
		summary = doc.Content
	} else {
		summary, aiGenerated = s.generate(ctx, doc, maxLength)
	}

	record := models.SummaryRecord{
		Text:        summary,
		MaxLength:   maxLength,
		AIGenerated: aiGenerated,
		GeneratedAt: time.Now().UTC(),
	}
	s.persist(ctx, doc.ID, record)

	return doc, SummaryResult{Summary: summary, AIGenerated: aiGenerated}, nil
}

// lookupCached checks Redis first, then the record stored on the document.
// A document-level hit backfills Redis.
func (s *SummaryService) lookupCached(ctx context.Context, doc models.Document, maxLength int) (models.SummaryRecord, bool) {
	key := summaryCacheKey(doc.ID, maxLength)

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var record models.SummaryRecord
			if err := json.Unmarshal([]byte(raw), &record); err == nil {
				return record, true
			}
		} else if err != redis.Nil {
			logger.Warn("Summary cache read failed", "error", err)
		}
	}

	if doc.Summary != nil && doc.Summary.MaxLength == maxLength {
		s.cacheSet(ctx, key, *doc.Summary)
		return *doc.Summary, true
	}

	return models.SummaryRecord{}, false
}

func (s *SummaryService) generate(ctx context.Context, doc models.Document, maxLength int) (string, bool) {
	summary, err := s.provider.GenerateSummary(ctx, doc.Content, maxLength)
	if err != nil {
		logger.Warn("AI summarization failed, using extractive fallback", "document_id", doc.ID, "error", err)
		s.recordOutcome("fallback")
		return ai.ExtractiveSummary(doc.Content, maxLength), false
	}

	// The model treats the limit as advisory; enforce it
	if len(summary) > maxLength {
		summary = ai.ExtractiveSummary(summary, maxLength)
	}

	s.recordOutcome("generated")
	return summary, true
}

func (s *SummaryService) persist(ctx context.Context, id models.DocumentID, record models.SummaryRecord) {
	if err := s.documents.SetSummary(ctx, id, record); err != nil {
		logger.Warn("Failed to store summary on document", "document_id", id, "error", err)
	}
	s.cacheSet(ctx, summaryCacheKey(id, record.MaxLength), record)
}

func (s *SummaryService) cacheSet(ctx context.Context, key string, record models.SummaryRecord) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		logger.Warn("Summary cache write failed", "error", err)
	}
}

func (s *SummaryService) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordSummary(outcome)
	}
}

func summaryCacheKey(id models.DocumentID, maxLength int) string {
	return fmt.Sprintf("summary:%s:%d", id, maxLength)
}

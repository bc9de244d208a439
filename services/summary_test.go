package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nevis-search-api/internal/store"
	"nevis-search-api/models"
)

type stubProvider struct {
	summary string
	fail    bool
	calls   int
}

func (p *stubProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("not implemented")
}

func (p *stubProvider) GenerateSummary(ctx context.Context, content string, maxLength int) (string, error) {
	p.calls++
	if p.fail {
		return "", errors.New("provider down")
	}
	return p.summary, nil
}

func (p *stubProvider) Health(ctx context.Context) error { return nil }

func seedDoc(t *testing.T, docs *store.MemoryDocumentStore, content string) models.Document {
	t.Helper()
	doc := models.NewDocument("client-1", models.CreateDocumentRequest{
		Title: "Report", Content: content,
	}, nil)
	if err := docs.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return doc
}

func longContent() string {
	return strings.Repeat("The quarterly revenue grew across every region. ", 10)
}

func TestSummarizeCachesSecondCall(t *testing.T) {
	docs := store.NewMemoryDocumentStore()
	doc := seedDoc(t, docs, longContent())
	provider := &stubProvider{summary: "Revenue grew everywhere."}
	svc := NewSummaryService(docs, provider, nil, time.Hour, nil)

	first, result, err := svc.Summarize(context.Background(), doc.ID, 150, false)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if result.Cached {
		t.Error("first call should not be cached")
	}
	if !result.AIGenerated {
		t.Error("expected AI-generated summary")
	}
	if first.ID != doc.ID {
		t.Errorf("wrong document returned: %s", first.ID)
	}

	_, second, err := svc.Summarize(context.Background(), doc.ID, 150, false)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if !second.Cached {
		t.Error("second call should be cached")
	}
	if second.Summary != result.Summary {
		t.Errorf("cached summary differs: %q vs %q", second.Summary, result.Summary)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

func TestSummarizeRegenerateBypassesCache(t *testing.T) {
	docs := store.NewMemoryDocumentStore()
	doc := seedDoc(t, docs, longContent())
	provider := &stubProvider{summary: "Revenue grew everywhere."}
	svc := NewSummaryService(docs, provider, nil, time.Hour, nil)

	if _, _, err := svc.Summarize(context.Background(), doc.ID, 150, false); err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	_, result, err := svc.Summarize(context.Background(), doc.ID, 150, true)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if result.Cached {
		t.Error("regenerate should not serve the cache")
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestSummarizeDifferentMaxLengthRegenerates(t *testing.T) {
	docs := store.NewMemoryDocumentStore()
	doc := seedDoc(t, docs, longContent())
	provider := &stubProvider{summary: "Revenue grew everywhere."}
	svc := NewSummaryService(docs, provider, nil, time.Hour, nil)

	if _, _, err := svc.Summarize(context.Background(), doc.ID, 150, false); err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	_, result, err := svc.Summarize(context.Background(), doc.ID, 200, false)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if result.Cached {
		t.Error("different max_length should not serve the cached summary")
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestSummarizeFallsBackWhenProviderFails(t *testing.T) {
	docs := store.NewMemoryDocumentStore()
	doc := seedDoc(t, docs, longContent())
	svc := NewSummaryService(docs, &stubProvider{fail: true}, nil, time.Hour, nil)

	_, result, err := svc.Summarize(context.Background(), doc.ID, 150, false)
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if result.AIGenerated {
		t.Error("fallback summary must not be marked AI-generated")
	}
	if result.Summary == "" {
		t.Error("expected non-empty extractive summary")
	}
	if len(result.Summary) > 150 {
		t.Errorf("summary length %d exceeds max_length", len(result.Summary))
	}
}

func TestSummarizeShortContentPassthrough(t *testing.T) {
	docs := store.NewMemoryDocumentStore()
	content := "Short enough already."
	doc := seedDoc(t, docs, content)
	provider := &stubProvider{summary: "unused"}
	svc := NewSummaryService(docs, provider, nil, time.Hour, nil)

	_, result, err := svc.Summarize(context.Background(), doc.ID, 150, false)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if result.Summary != content {
		t.Errorf("expected content returned verbatim, got %q", result.Summary)
	}
	if result.Cached || result.AIGenerated {
		t.Errorf("first passthrough should not be cached or AI-generated: %+v", result)
	}
	if provider.calls != 0 {
		t.Errorf("provider should not be called, got %d calls", provider.calls)
	}

	// The passthrough is stored like any other summary, so an identical
	// repeat request is a cache hit
	_, second, err := svc.Summarize(context.Background(), doc.ID, 150, false)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if !second.Cached {
		t.Error("second identical request should report cached=true")
	}
	if second.Summary != content {
		t.Errorf("cached passthrough differs: %q", second.Summary)
	}
	if second.AIGenerated {
		t.Error("passthrough must not be marked AI-generated")
	}
	if provider.calls != 0 {
		t.Errorf("provider should not be called, got %d calls", provider.calls)
	}
}

func TestSummarizeUnknownDocument(t *testing.T) {
	svc := NewSummaryService(store.NewMemoryDocumentStore(), &stubProvider{}, nil, time.Hour, nil)
	_, _, err := svc.Summarize(context.Background(), "doc-missing", 150, false)
	if err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSummarizeEnforcesMaxLengthOnModelOutput(t *testing.T) {
	docs := store.NewMemoryDocumentStore()
	doc := seedDoc(t, docs, longContent())
	oversized := strings.Repeat("A very wordy model answer. ", 20)
	svc := NewSummaryService(docs, &stubProvider{summary: oversized}, nil, time.Hour, nil)

	_, result, err := svc.Summarize(context.Background(), doc.ID, 100, false)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if len(result.Summary) > 100 {
		t.Errorf("summary length %d exceeds max_length 100", len(result.Summary))
	}
}

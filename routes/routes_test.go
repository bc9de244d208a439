package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nevis-search-api/internal/search"
	"nevis-search-api/internal/store"
	"nevis-search-api/models"
	"nevis-search-api/services"

	"github.com/gin-gonic/gin"
)

type stubProvider struct {
	embedding []float32
	summary   string
	failEmbed bool
}

func (p *stubProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if p.failEmbed {
		return nil, errors.New("provider down")
	}
	return p.embedding, nil
}

func (p *stubProvider) GenerateSummary(ctx context.Context, content string, maxLength int) (string, error) {
	return p.summary, nil
}

func (p *stubProvider) Health(ctx context.Context) error { return nil }

type testEnv struct {
	router    *gin.Engine
	clients   *store.MemoryClientStore
	documents *store.MemoryDocumentStore
	provider  *stubProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		clients:   store.NewMemoryClientStore(),
		documents: store.NewMemoryDocumentStore(),
		provider:  &stubProvider{embedding: []float32{1, 0}, summary: "A generated summary."},
	}

	engine := search.NewEngine(env.clients, env.documents, env.provider, search.DefaultConfig())
	summaries := services.NewSummaryService(env.documents, env.provider, nil, time.Hour, nil)

	env.router = gin.New()
	SetupClientRoutes(env.router, env.clients, env.documents, env.provider)
	SetupDocumentRoutes(env.router, env.documents, summaries)
	SetupSearchRoutes(env.router, engine, search.DefaultConfig(), nil)
	env.router.GET("/", handleRoot())

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode failed: %v (body: %s)", err, w.Body.String())
	}
}

func (e *testEnv) createClient(t *testing.T, email string) models.Client {
	t.Helper()
	w := e.do(t, http.MethodPost, "/clients", gin.H{
		"first_name": "Alice",
		"last_name":  "Johnson",
		"email":      email,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create client: status %d, body %s", w.Code, w.Body.String())
	}
	var client models.Client
	decode(t, w, &client)
	return client
}

func (e *testEnv) createDocument(t *testing.T, clientID models.ClientID, title, content string) models.Document {
	t.Helper()
	w := e.do(t, http.MethodPost, fmt.Sprintf("/clients/%s/documents", clientID), gin.H{
		"title":   title,
		"content": content,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create document: status %d, body %s", w.Code, w.Body.String())
	}
	var doc models.Document
	decode(t, w, &doc)
	return doc
}

func TestRootBanner(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["message"] == "" || body["version"] == "" {
		t.Errorf("banner missing fields: %v", body)
	}
}

func TestCreateClientAndGet(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t, "alice@example.com")

	if !strings.HasPrefix(string(client.ID), "client-") {
		t.Errorf("client ID missing prefix: %s", client.ID)
	}

	w := env.do(t, http.MethodGet, "/clients/"+string(client.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get client: status %d", w.Code)
	}
	var got models.Client
	decode(t, w, &got)
	if got.Email != "alice@example.com" {
		t.Errorf("email = %q", got.Email)
	}
}

func TestCreateClientDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createClient(t, "alice@example.com")

	w := env.do(t, http.MethodPost, "/clients", gin.H{
		"first_name": "Another",
		"last_name":  "Person",
		"email":      "alice@example.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["detail"] != "Email already registered" {
		t.Errorf("detail = %q", body["detail"])
	}
}

func TestCreateClientValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing email", gin.H{"first_name": "A", "last_name": "B"}},
		{"bad email", gin.H{"first_name": "A", "last_name": "B", "email": "not-an-email"}},
		{"empty first name", gin.H{"first_name": "", "last_name": "B", "email": "a@b.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/clients", tc.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Errorf("status %d, want 422 (body: %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetClientNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/clients/client-does-not-exist", "/clients/garbage"} {
		w := env.do(t, http.MethodGet, path, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status %d, want 404", path, w.Code)
		}
		var body map[string]string
		decode(t, w, &body)
		if body["detail"] != "Client not found" {
			t.Errorf("%s: detail = %q", path, body["detail"])
		}
	}
}

func TestListClientsPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 5; i++ {
		env.createClient(t, fmt.Sprintf("user%d@example.com", i))
	}

	var page struct {
		Items       []models.Client `json:"items"`
		Total       int64           `json:"total"`
		Offset      int             `json:"offset"`
		Limit       int             `json:"limit"`
		HasNext     bool            `json:"has_next"`
		HasPrevious bool            `json:"has_previous"`
	}

	w := env.do(t, http.MethodGet, "/clients?offset=0&limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	decode(t, w, &page)
	if page.Total != 5 || len(page.Items) != 2 || !page.HasNext || page.HasPrevious {
		t.Errorf("first page wrong: %+v", page)
	}

	w = env.do(t, http.MethodGet, "/clients?offset=4&limit=2", nil)
	decode(t, w, &page)
	if len(page.Items) != 1 || page.HasNext || !page.HasPrevious {
		t.Errorf("last page wrong: %+v", page)
	}

	// Offset past the end: empty page, not an error
	w = env.do(t, http.MethodGet, "/clients?offset=100&limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	decode(t, w, &page)
	if len(page.Items) != 0 || page.Total != 5 {
		t.Errorf("overflow page wrong: %+v", page)
	}
}

func TestListClientsInvalidPagination(t *testing.T) {
	env := newTestEnv(t)
	for _, q := range []string{"offset=-1", "limit=0", "limit=101", "offset=abc"} {
		w := env.do(t, http.MethodGet, "/clients?"+q, nil)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status %d, want 422", q, w.Code)
		}
	}
}

func TestCreateDocumentEmbeddingFailure(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t, "alice@example.com")
	env.provider.failEmbed = true

	w := env.do(t, http.MethodPost, fmt.Sprintf("/clients/%s/documents", client.ID), gin.H{
		"title":   "Report",
		"content": "Quarterly numbers.",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", w.Code)
	}

	// Nothing stored
	env.provider.failEmbed = false
	listW := env.do(t, http.MethodGet, fmt.Sprintf("/clients/%s/documents", client.ID), nil)
	var page struct {
		Total int64 `json:"total"`
	}
	decode(t, listW, &page)
	if page.Total != 0 {
		t.Errorf("document stored despite embedding failure: total=%d", page.Total)
	}
}

func TestCreateDocumentUnknownClient(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/clients/client-missing/documents", gin.H{
		"title":   "Report",
		"content": "Body.",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", w.Code)
	}
}

func TestGetDocument(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t, "alice@example.com")
	doc := env.createDocument(t, client.ID, "Report", "Quarterly numbers.")

	w := env.do(t, http.MethodGet, "/documents/"+string(doc.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var got models.Document
	decode(t, w, &got)
	if got.Title != "Report" || got.ClientID != client.ID {
		t.Errorf("wrong document: %+v", got)
	}

	w = env.do(t, http.MethodGet, "/documents/doc-missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", w.Code)
	}
}

func TestSearchValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing q: status %d, want 400", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["detail"] != "Search query cannot be empty" {
		t.Errorf("detail = %q", body["detail"])
	}

	w = env.do(t, http.MethodGet, "/search?q=%20%20", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank q: status %d, want 400", w.Code)
	}

	for _, q := range []string{"q=x&type=bogus", "q=x&limit=0", "q=x&limit=101", "q=x&semantic=maybe"} {
		w := env.do(t, http.MethodGet, "/search?"+q, nil)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status %d, want 422", q, w.Code)
		}
	}
}

func TestSearchReturnsMatches(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t, "alice@example.com")
	env.createDocument(t, client.ID, "Migration Plan", "Steps for the database cutover.")

	w := env.do(t, http.MethodGet, "/search?q=alice&type=clients", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp models.SearchResponse
	decode(t, w, &resp)
	if len(resp.Clients) != 1 || resp.TotalResults != 1 {
		t.Errorf("client search wrong: %+v", resp)
	}
	if resp.Clients[0].MatchScore <= 0 || resp.Clients[0].MatchScore > 1 {
		t.Errorf("score out of range: %v", resp.Clients[0].MatchScore)
	}

	w = env.do(t, http.MethodGet, "/search?q=migration&type=documents&semantic=false", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	decode(t, w, &resp)
	if len(resp.Documents) != 1 {
		t.Fatalf("document search wrong: %+v", resp)
	}
	if resp.Documents[0].MatchField != "title" {
		t.Errorf("match_field = %q, want title", resp.Documents[0].MatchField)
	}
}

func TestDocumentSummaryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t, "alice@example.com")
	content := strings.Repeat("The quarterly revenue grew across every region. ", 10)
	doc := env.createDocument(t, client.ID, "Report", content)

	w := env.do(t, http.MethodGet, "/documents/"+string(doc.ID)+"/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var first models.DocumentSummaryResponse
	decode(t, w, &first)
	if first.Cached {
		t.Error("first call should not be cached")
	}
	if first.Summary == "" || first.SummaryLength != len(first.Summary) {
		t.Errorf("summary fields inconsistent: %+v", first)
	}

	w = env.do(t, http.MethodGet, "/documents/"+string(doc.ID)+"/summary", nil)
	var second models.DocumentSummaryResponse
	decode(t, w, &second)
	if !second.Cached {
		t.Error("second call should be cached")
	}

	w = env.do(t, http.MethodGet, "/documents/"+string(doc.ID)+"/summary?regenerate=true", nil)
	var third models.DocumentSummaryResponse
	decode(t, w, &third)
	if third.Cached {
		t.Error("regenerate should bypass the cache")
	}
}

func TestDocumentSummaryDefaultLength(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t, "alice@example.com")

	// 180 characters: over the old-style shorter budgets, but within the
	// default of 200, so the content comes back verbatim
	content := strings.Repeat("abcdefghi ", 18)
	doc := env.createDocument(t, client.ID, "Report", content)

	w := env.do(t, http.MethodGet, "/documents/"+string(doc.ID)+"/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var resp models.DocumentSummaryResponse
	decode(t, w, &resp)
	if resp.Summary != content {
		t.Errorf("expected verbatim content under the 200-char default, got %d chars", len(resp.Summary))
	}
}

func TestDocumentSummaryValidation(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t, "alice@example.com")
	doc := env.createDocument(t, client.ID, "Report", "Body text.")

	for _, q := range []string{"max_length=30", "max_length=501", "max_length=abc", "regenerate=maybe"} {
		w := env.do(t, http.MethodGet, "/documents/"+string(doc.ID)+"/summary?"+q, nil)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status %d, want 422", q, w.Code)
		}
	}

	w := env.do(t, http.MethodGet, "/documents/doc-missing/summary", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", w.Code)
	}
}

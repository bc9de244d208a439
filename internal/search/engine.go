package search

import (
	"context"
	"sort"
	"strings"

	"nevis-search-api/internal/ai"
	"nevis-search-api/internal/logger"
	"nevis-search-api/internal/store"
	"nevis-search-api/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Engine runs keyword and semantic search over clients and documents and
// fuses the two signals into one ranked result set.
type Engine struct {
	clients   store.ClientStore
	documents store.DocumentStore
	provider  ai.Provider
	cfg       Config
}

func NewEngine(clients store.ClientStore, documents store.DocumentStore, provider ai.Provider, cfg Config) *Engine {
	return &Engine{
		clients:   clients,
		documents: documents,
		provider:  provider,
		cfg:       cfg,
	}
}

// Search runs the query against the requested entity types. Document
// search is hybrid by default; semantic=false restricts it to keyword
// matching. A failing embedding provider degrades document search to
// keyword-only rather than failing the request.
func (e *Engine) Search(ctx context.Context, query string, searchType models.SearchType, limit int, semantic bool) (*models.SearchResponse, error) {
	tracer := otel.Tracer("search-engine")
	ctx, span := tracer.Start(ctx, "search.execute")
	defer span.End()

	span.SetAttributes(
		attribute.String("search.type", string(searchType)),
		attribute.Int("search.limit", limit),
		attribute.Bool("search.semantic", semantic),
	)

	response := &models.SearchResponse{
		Query:      query,
		SearchType: searchType,
		Clients:    []models.ClientSearchResult{},
		Documents:  []models.DocumentSearchResult{},
	}

	if searchType == models.SearchTypeAll || searchType == models.SearchTypeClients {
		clients, err := e.searchClients(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		response.Clients = clients
	}

	if searchType == models.SearchTypeAll || searchType == models.SearchTypeDocuments {
		documents, err := e.searchDocuments(ctx, query, limit, semantic)
		if err != nil {
			return nil, err
		}
		response.Documents = documents
	}

	response.TotalResults = len(response.Clients) + len(response.Documents)
	span.SetAttributes(attribute.Int("search.total_results", response.TotalResults))

	return response, nil
}

func (e *Engine) searchClients(ctx context.Context, query string, limit int) ([]models.ClientSearchResult, error) {
	candidates, err := e.clients.FindMatching(ctx, query, limit*5)
	if err != nil {
		return nil, err
	}

	results := []models.ClientSearchResult{}
	for _, client := range candidates {
		score, field := ScoreClient(client, query)
		if score <= 0 {
			continue
		}
		results = append(results, models.ClientSearchResult{
			Client:     client,
			MatchScore: clampScore(score),
			MatchField: field,
		})
	}

	sortClientResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (e *Engine) searchDocuments(ctx context.Context, query string, limit int, semantic bool) ([]models.DocumentSearchResult, error) {
	keyword, err := e.keywordDocuments(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	var matches []store.SemanticMatch
	ok := false
	if semantic {
		matches, ok = e.semanticDocuments(ctx, query, limit)
	}
	if !ok {
		sortDocumentResults(keyword)
		if len(keyword) > limit {
			keyword = keyword[:limit]
		}
		return keyword, nil
	}

	fused := e.fuse(keyword, matches)

	sortDocumentResults(fused)
	if len(fused) > limit {
		fused = fused[:limit]
	}
	return fused, nil
}

func (e *Engine) keywordDocuments(ctx context.Context, query string, limit int) ([]models.DocumentSearchResult, error) {
	words := strings.Fields(strings.ToLower(query))
	candidates, err := e.documents.FindMatching(ctx, query, words, limit*5)
	if err != nil {
		return nil, err
	}

	results := []models.DocumentSearchResult{}
	for _, doc := range candidates {
		score, field := ScoreDocument(doc, query)
		if score <= 0 {
			continue
		}
		results = append(results, models.DocumentSearchResult{
			Document:   doc,
			MatchScore: clampScore(score),
			MatchField: field,
		})
	}
	return results, nil
}

// semanticDocuments returns similarity matches for the query. The second
// return is false when the provider or the scan is unavailable, telling
// the caller to serve keyword results as-is.
func (e *Engine) semanticDocuments(ctx context.Context, query string, limit int) ([]store.SemanticMatch, bool) {
	vec, err := e.provider.GenerateEmbedding(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed, falling back to keyword search", "error", err)
		return nil, false
	}

	matches, err := e.documents.NearestByEmbedding(ctx, vec, limit*5, e.cfg.SimilarityThreshold)
	if err != nil {
		logger.Warn("Semantic search failed, falling back to keyword search", "error", err)
		return nil, false
	}
	return matches, true
}

// fuse merges keyword and semantic scores per document. A document seen
// by both signals gets a weighted combination and the "hybrid" field; one
// seen only semantically gets its weighted similarity and "semantic".
func (e *Engine) fuse(keyword []models.DocumentSearchResult, matches []store.SemanticMatch) []models.DocumentSearchResult {
	byID := make(map[models.DocumentID]int, len(keyword))
	fused := make([]models.DocumentSearchResult, 0, len(keyword)+len(matches))

	for _, result := range keyword {
		byID[result.Document.ID] = len(fused)
		result.MatchScore = clampScore(result.MatchScore * e.cfg.KeywordWeight)
		fused = append(fused, result)
	}

	for _, match := range matches {
		weighted := match.Similarity * e.cfg.SemanticWeight
		if idx, ok := byID[match.Document.ID]; ok {
			fused[idx].MatchScore = clampScore(fused[idx].MatchScore + weighted)
			fused[idx].MatchField = FieldHybrid
			continue
		}
		fused = append(fused, models.DocumentSearchResult{
			Document:   match.Document,
			MatchScore: clampScore(weighted),
			MatchField: FieldSemantic,
		})
	}

	return fused
}

// Equal client scores keep creation order, oldest first.
func sortClientResults(results []models.ClientSearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
}

// Equal document scores rank the newer record first.
func sortDocumentResults(results []models.DocumentSearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"nevis-search-api/models"
)

// MemoryClientStore is an in-memory ClientStore used by tests.
type MemoryClientStore struct {
	mu      sync.RWMutex
	clients []models.Client
}

func NewMemoryClientStore() *MemoryClientStore {
	return &MemoryClientStore{}
}

func (s *MemoryClientStore) Create(ctx context.Context, client models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.clients {
		if strings.EqualFold(existing.Email, client.Email) {
			return ErrDuplicateEmail
		}
	}
	s.clients = append(s.clients, client)
	return nil
}

func (s *MemoryClientStore) Get(ctx context.Context, id models.ClientID) (models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, client := range s.clients {
		if client.ID == id {
			return client, nil
		}
	}
	return models.Client{}, ErrNotFound
}

func (s *MemoryClientStore) List(ctx context.Context, offset, limit int) ([]models.Client, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := int64(len(s.clients))
	if offset >= len(s.clients) {
		return []models.Client{}, total, nil
	}
	end := offset + limit
	if end > len(s.clients) {
		end = len(s.clients)
	}

	page := make([]models.Client, end-offset)
	copy(page, s.clients[offset:end])
	return page, total, nil
}

func (s *MemoryClientStore) FindMatching(ctx context.Context, query string, limit int) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var matched []models.Client
	for _, client := range s.clients {
		if len(matched) >= limit {
			break
		}
		haystack := strings.ToLower(client.Email + " " + client.FirstName + " " + client.LastName + " " + client.Description)
		if strings.Contains(haystack, q) {
			matched = append(matched, client)
		}
	}
	return matched, nil
}

// MemoryDocumentStore is an in-memory DocumentStore used by tests.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs []models.Document
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{}
}

func (s *MemoryDocumentStore) Create(ctx context.Context, doc models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = append(s.docs, doc)
	return nil
}

func (s *MemoryDocumentStore) Get(ctx context.Context, id models.DocumentID) (models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return models.Document{}, ErrNotFound
}

func (s *MemoryDocumentStore) ListByClient(ctx context.Context, clientID models.ClientID, offset, limit int) ([]models.Document, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []models.Document
	for _, doc := range s.docs {
		if doc.ClientID == clientID {
			owned = append(owned, doc)
		}
	}

	total := int64(len(owned))
	if offset >= len(owned) {
		return []models.Document{}, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

func (s *MemoryDocumentStore) FindMatching(ctx context.Context, query string, words []string, limit int) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var matched []models.Document
	for _, doc := range s.docs {
		if len(matched) >= limit {
			break
		}
		title := strings.ToLower(doc.Title)
		content := strings.ToLower(doc.Content)
		if strings.Contains(title, q) || strings.Contains(content, q) {
			matched = append(matched, doc)
			continue
		}
		for _, word := range words {
			w := strings.ToLower(word)
			if strings.Contains(title, w) || strings.Contains(content, w) {
				matched = append(matched, doc)
				break
			}
		}
	}
	return matched, nil
}

func (s *MemoryDocumentStore) NearestByEmbedding(ctx context.Context, vec []float32, limit int, threshold float64) ([]SemanticMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []SemanticMatch
	for _, doc := range s.docs {
		if len(doc.Embedding) == 0 {
			continue
		}
		similarity := Cosine(vec, doc.Embedding)
		if similarity >= threshold {
			matches = append(matches, SemanticMatch{Document: doc, Similarity: similarity})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *MemoryDocumentStore) SetSummary(ctx context.Context, id models.DocumentID, summary models.SummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].ID == id {
			record := summary
			s.docs[i].Summary = &record
			return nil
		}
	}
	return ErrNotFound
}

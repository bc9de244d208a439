package store

import (
	"context"
	"errors"

	"nevis-search-api/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a client email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// SemanticMatch pairs a document with its cosine similarity to a query
// vector.
type SemanticMatch struct {
	Document   models.Document
	Similarity float64
}

// ClientStore is the persistence interface for clients.
type ClientStore interface {
	Create(ctx context.Context, client models.Client) error
	Get(ctx context.Context, id models.ClientID) (models.Client, error)
	// List returns a page of clients ordered by creation time along with
	// the total count.
	List(ctx context.Context, offset, limit int) ([]models.Client, int64, error)
	// FindMatching returns clients whose email, name, or description
	// contains the query, case-insensitively. Scoring happens upstream.
	FindMatching(ctx context.Context, query string, limit int) ([]models.Client, error)
}

// DocumentStore is the persistence interface for documents.
type DocumentStore interface {
	Create(ctx context.Context, doc models.Document) error
	Get(ctx context.Context, id models.DocumentID) (models.Document, error)
	// ListByClient returns a page of the client's documents ordered by
	// creation time along with the total count.
	ListByClient(ctx context.Context, clientID models.ClientID, offset, limit int) ([]models.Document, int64, error)
	// FindMatching returns documents whose title or content contains the
	// query or any of its words, case-insensitively.
	FindMatching(ctx context.Context, query string, words []string, limit int) ([]models.Document, error)
	// NearestByEmbedding returns documents whose embedding cosine
	// similarity to vec is at least threshold, best first.
	NearestByEmbedding(ctx context.Context, vec []float32, limit int, threshold float64) ([]SemanticMatch, error)
	// SetSummary persists the cached summary on the document.
	SetSummary(ctx context.Context, id models.DocumentID, summary models.SummaryRecord) error
}

package models

import (
	"time"
)

type Document struct {
	ID        DocumentID `bson:"_id" json:"id"`
	ClientID  ClientID   `bson:"client_id" json:"client_id"`
	Title     string     `bson:"title" json:"title"`
	Content   string     `bson:"content" json:"content"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`

	// Embedding is computed synchronously at creation time. A document is
	// never stored without one.
	Embedding []float32 `bson:"embedding" json:"-"`

	// Summary is the lazily generated summary cache entry, if any.
	Summary *SummaryRecord `bson:"summary,omitempty" json:"-"`
}

// SummaryRecord is a cached summary together with the max_length it was
// generated for and whether it came from the AI summarizer or the
// extractive fallback.
type SummaryRecord struct {
	Text        string    `bson:"text" json:"text"`
	MaxLength   int       `bson:"max_length" json:"max_length"`
	AIGenerated bool      `bson:"ai_generated" json:"ai_generated"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
}

type CreateDocumentRequest struct {
	Title   string `json:"title" binding:"required,min=1"`
	Content string `json:"content" binding:"required,min=1"`
}

// NewDocument builds a Document with a generated ID and creation timestamp.
// The embedding must already be computed; creation is atomic with it.
func NewDocument(clientID ClientID, req CreateDocumentRequest, embedding []float32) Document {
	return Document{
		ID:        NewDocumentID(),
		ClientID:  clientID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
		Embedding: embedding,
	}
}

type DocumentSummaryResponse struct {
	DocumentID    DocumentID `json:"document_id"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	SummaryLength int        `json:"summary_length"`
	Cached        bool       `json:"cached"`
}

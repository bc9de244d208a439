package ai

import (
	"context"
)

// Provider is the capability interface over the external embedding and
// summarization service. Callers treat failures as absence: summary
// generation falls back to the extractive path, search degrades to
// keyword-only. Document creation is the one exception - an embedding
// failure there fails the request.
type Provider interface {
	// GenerateEmbedding returns a fixed-length embedding vector for text.
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GenerateSummary returns a summary of content of roughly maxLength
	// characters.
	GenerateSummary(ctx context.Context, content string, maxLength int) (string, error)

	// Health probes the service.
	Health(ctx context.Context) error
}

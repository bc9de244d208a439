package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nevis-search-api/internal/config"
	"nevis-search-api/internal/logger"
	"nevis-search-api/internal/telemetry"

	"github.com/sony/gobreaker"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

// OpenAIClient implements Provider against an OpenAI-compatible API,
// wrapped in a circuit breaker and an outbound rate limiter.
type OpenAIClient struct {
	llm         *openai.LLM
	embedder    embeddings.Embedder
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
	metrics     *telemetry.Metrics
	model       string
	dimensions  int
}

func NewOpenAIClient(cfg *config.Config, metrics *telemetry.Metrics) (*OpenAIClient, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.OpenAIModel),
		openai.WithEmbeddingModel(cfg.OpenAIEmbeddingsModel),
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "OpenAI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			if metrics != nil {
				metrics.RecordCircuitBreakerState(name, to.String())
			}
		},
	})

	// RPM limit with some buffer
	rpm := cfg.OpenAIRequestsPerMin
	if rpm < 10 {
		rpm = 10
	}
	rateLimiter := rate.NewLimiter(rate.Limit(float64(rpm)*0.9/60.0), rpm/10)

	return &OpenAIClient{
		llm:         llm,
		embedder:    embedder,
		breaker:     breaker,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		model:       cfg.OpenAIModel,
		dimensions:  cfg.EmbeddingDimensions,
	}, nil
}

// GenerateEmbedding embeds a single text. Empty or whitespace-only text
// yields a zero vector rather than an error.
func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	tracer := otel.Tracer("openai-client")
	ctx, span := tracer.Start(ctx, "openai.generate_embedding")
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("Empty text provided for embedding")
		return make([]float32, c.dimensions), nil
	}

	span.SetAttributes(attribute.Int("openai.text_length", len(text)))

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.embedder.EmbedDocuments(ctx, []string{text})
	})
	if c.metrics != nil {
		c.metrics.RecordEmbedding(time.Since(start).Seconds(), err == nil)
	}
	if err != nil {
		span.SetAttributes(attribute.Bool("openai.error", true))
		return nil, fmt.Errorf("embedding failed: %w", err)
	}

	vectors := result.([][]float32)
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return vectors[0], nil
}

// GenerateSummary asks the chat model for a summary of roughly maxLength
// characters.
func (c *OpenAIClient) GenerateSummary(ctx context.Context, content string, maxLength int) (string, error) {
	tracer := otel.Tracer("openai-client")
	ctx, span := tracer.Start(ctx, "openai.generate_summary")
	defer span.End()

	span.SetAttributes(
		attribute.Int("openai.content_length", len(content)),
		attribute.Int("openai.max_length", maxLength),
		attribute.String("openai.model", c.model),
	)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	// Approximate word limit (avg 5 chars per word)
	wordLimit := maxLength / 5
	prompt := fmt.Sprintf(
		"You are a professional document summarizer. Create a concise, "+
			"informative summary of approximately %d words. Focus on the key "+
			"information, purpose, and important details of the document. "+
			"Write in a clear, professional tone.\n\nSummarize this document:\n\n%s",
		wordLimit, content,
	)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
			llms.WithTemperature(0.3),
			llms.WithMaxTokens(100),
		)
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("openai.error", true))
		return "", fmt.Errorf("summarization failed: %w", err)
	}

	summary := strings.TrimSpace(result.(string))
	summary = strings.Trim(summary, `"'`)

	return summary, nil
}

// Health probes the embeddings endpoint with a trivial query.
func (c *OpenAIClient) Health(ctx context.Context) error {
	if c.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("circuit breaker open: OpenAI service degraded")
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return c.embedder.EmbedQuery(ctx, "ping")
	})
	if err != nil {
		return fmt.Errorf("OpenAI unreachable: %w", err)
	}

	return nil
}

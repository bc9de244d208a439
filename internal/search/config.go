package search

import (
	appconfig "nevis-search-api/internal/config"
)

// Config carries the tunable knobs of the search engine.
type Config struct {
	KeywordWeight       float64
	SemanticWeight      float64
	SimilarityThreshold float64
	DefaultLimit        int
	MaxLimit            int
}

// DefaultConfig returns the standard weights and limits.
func DefaultConfig() Config {
	return Config{
		KeywordWeight:       0.4,
		SemanticWeight:      0.6,
		SimilarityThreshold: 0.15,
		DefaultLimit:        10,
		MaxLimit:            100,
	}
}

// FromAppConfig builds a search config from the application config.
func FromAppConfig(cfg *appconfig.Config) Config {
	return Config{
		KeywordWeight:       cfg.KeywordWeight,
		SemanticWeight:      cfg.SemanticWeight,
		SimilarityThreshold: cfg.SemanticSimilarityThreshold,
		DefaultLimit:        cfg.SearchDefaultLimit,
		MaxLimit:            cfg.SearchMaxLimit,
	}
}

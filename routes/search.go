package routes

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nevis-search-api/internal/logger"
	"nevis-search-api/internal/search"
	"nevis-search-api/internal/telemetry"
	"nevis-search-api/models"
	"nevis-search-api/utils"

	"github.com/gin-gonic/gin"
)

// SetupSearchRoutes configures the hybrid search endpoint.
func SetupSearchRoutes(router *gin.Engine, engine *search.Engine, cfg search.Config, metrics *telemetry.Metrics) {
	router.GET("/search", handleSearch(engine, cfg, metrics))
}

func handleSearch(engine *search.Engine, cfg search.Config, metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			utils.BadRequest(c, "Search query cannot be empty")
			return
		}

		searchType := models.SearchTypeAll
		if raw := c.Query("type"); raw != "" {
			searchType = models.SearchType(raw)
			if !searchType.Valid() {
				utils.Validation(c, "type must be one of: all, clients, documents")
				return
			}
		}

		limit := cfg.DefaultLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				utils.Validation(c, "limit must be an integer")
				return
			}
			limit = parsed
		}
		if limit < 1 || limit > cfg.MaxLimit {
			utils.Validation(c, "limit must be between 1 and "+strconv.Itoa(cfg.MaxLimit))
			return
		}

		semantic := true
		if raw := c.Query("semantic"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				utils.Validation(c, "semantic must be a boolean")
				return
			}
			semantic = parsed
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		response, err := engine.Search(ctx, query, searchType, limit, semantic)
		if err != nil {
			logger.Error("Search failed", "query", query, "error", err)
			utils.ServiceUnavailable(c, "Search is temporarily unavailable")
			return
		}

		if metrics != nil {
			metrics.RecordSearch(string(searchType), semantic)
		}

		c.JSON(http.StatusOK, response)
	}
}

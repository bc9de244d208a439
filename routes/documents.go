package routes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"nevis-search-api/internal/logger"
	"nevis-search-api/internal/store"
	"nevis-search-api/models"
	"nevis-search-api/services"
	"nevis-search-api/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultSummaryLength = 200
	minSummaryLength     = 50
	maxSummaryLength     = 500
)

// SetupDocumentRoutes configures direct document access and the summary
// endpoint.
func SetupDocumentRoutes(router *gin.Engine, documents store.DocumentStore, summaries *services.SummaryService) {
	router.GET("/documents/:document_id", handleGetDocument(documents))
	router.GET("/documents/:document_id/summary", handleDocumentSummary(summaries))
}

func handleGetDocument(documents store.DocumentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := models.ParseDocumentID(c.Param("document_id"))
		if err != nil {
			utils.NotFound(c, "Document not found")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		doc, err := documents.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.NotFound(c, "Document not found")
				return
			}
			logger.Error("Failed to get document", "document_id", id, "error", err)
			utils.ServiceUnavailable(c, "Storage is temporarily unavailable")
			return
		}

		c.JSON(http.StatusOK, doc)
	}
}

func handleDocumentSummary(summaries *services.SummaryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := models.ParseDocumentID(c.Param("document_id"))
		if err != nil {
			utils.NotFound(c, "Document not found")
			return
		}

		maxLength := defaultSummaryLength
		if raw := c.Query("max_length"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				utils.Validation(c, "max_length must be an integer")
				return
			}
			maxLength = parsed
		}
		if maxLength < minSummaryLength || maxLength > maxSummaryLength {
			utils.Validation(c, "max_length must be between 50 and 500")
			return
		}

		regenerate := false
		if raw := c.Query("regenerate"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				utils.Validation(c, "regenerate must be a boolean")
				return
			}
			regenerate = parsed
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		doc, result, err := summaries.Summarize(ctx, id, maxLength, regenerate)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.NotFound(c, "Document not found")
				return
			}
			logger.Error("Summary generation failed", "document_id", id, "error", err)
			utils.ServiceUnavailable(c, "Storage is temporarily unavailable")
			return
		}

		c.JSON(http.StatusOK, models.DocumentSummaryResponse{
			DocumentID:    doc.ID,
			Title:         doc.Title,
			Summary:       result.Summary,
			SummaryLength: len(result.Summary),
			Cached:        result.Cached,
		})
	}
}

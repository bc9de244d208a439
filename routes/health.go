package routes

import (
	"context"
	"net/http"
	"time"

	"nevis-search-api/internal/ai"
	"nevis-search-api/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// SetupHealthRoutes configures the service banner and dependency probes.
func SetupHealthRoutes(router *gin.Engine, mongoClient *mongo.Client, provider ai.Provider) {
	router.GET("/", handleRoot())
	router.GET("/health/db", handleDatabaseHealth(mongoClient))
	router.GET("/health/openai", handleOpenAIHealth(provider))
}

func handleRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Nevis Search API",
			"version": "1.0.0",
		})
	}
}

func handleDatabaseHealth(mongoClient *mongo.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			utils.ServiceUnavailable(c, "Database unreachable")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	}
}

func handleOpenAIHealth(provider ai.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if err := provider.Health(ctx); err != nil {
			utils.ServiceUnavailable(c, "OpenAI unreachable")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"openai": "connected",
		})
	}
}

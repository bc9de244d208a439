package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nevis-search-api/internal/ai"
	"nevis-search-api/internal/logger"
	"nevis-search-api/internal/store"
	"nevis-search-api/models"
	"nevis-search-api/utils"

	"github.com/gin-gonic/gin"
)

// SetupClientRoutes configures client CRUD and per-client document
// endpoints.
func SetupClientRoutes(router *gin.Engine, clients store.ClientStore, documents store.DocumentStore, provider ai.Provider) {
	router.GET("/clients", handleListClients(clients))
	router.POST("/clients", handleCreateClient(clients))
	router.GET("/clients/:client_id", handleGetClient(clients))

	router.POST("/clients/:client_id/documents", handleCreateDocument(clients, documents, provider))
	router.GET("/clients/:client_id/documents", handleListDocuments(clients, documents))
}

func handleListClients(clients store.ClientStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, err := utils.ParsePageParams(c.Query("offset"), c.Query("limit"))
		if err != nil {
			utils.Validation(c, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		items, total, err := clients.List(ctx, offset, limit)
		if err != nil {
			logger.Error("Failed to list clients", "error", err)
			utils.ServiceUnavailable(c, "Storage is temporarily unavailable")
			return
		}

		c.JSON(http.StatusOK, models.NewPage(items, total, offset, limit))
	}
}

func handleCreateClient(clients store.ClientStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateClientRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Validation(c, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		client := models.NewClient(req)
		if err := clients.Create(ctx, client); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				utils.BadRequest(c, "Email already registered")
				return
			}
			logger.Error("Failed to create client", "error", err)
			utils.ServiceUnavailable(c, "Storage is temporarily unavailable")
			return
		}

		logger.Info("Client created", "client_id", client.ID, "email", client.Email)
		c.JSON(http.StatusCreated, client)
	}
}

func handleGetClient(clients store.ClientStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := models.ParseClientID(c.Param("client_id"))
		if err != nil {
			utils.NotFound(c, "Client not found")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		client, err := clients.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.NotFound(c, "Client not found")
				return
			}
			logger.Error("Failed to get client", "client_id", id, "error", err)
			utils.ServiceUnavailable(c, "Storage is temporarily unavailable")
			return
		}

		c.JSON(http.StatusOK, client)
	}
}

func handleCreateDocument(clients store.ClientStore, documents store.DocumentStore, provider ai.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, err := models.ParseClientID(c.Param("client_id"))
		if err != nil {
			utils.NotFound(c, "Client not found")
			return
		}

		var req models.CreateDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Validation(c, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		if _, err := clients.Get(ctx, clientID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.NotFound(c, "Client not found")
				return
			}
			logger.Error("Failed to verify client", "client_id", clientID, "error", err)
			utils.ServiceUnavailable(c, "Storage is temporarily unavailable")
			return
		}

		// Embed first; the document is only stored with its vector
		embedding, err := provider.GenerateEmbedding(ctx, req.Title+" "+req.Content)
		if err != nil {
			logger.Error("Embedding failed, document not stored", "client_id", clientID, "error", err)
			utils.ServiceUnavailable(c, "Embedding service unavailable")
			return
		}

		doc := models.NewDocument(clientID, req, embedding)
		if err := documents.Create(ctx, doc); err != nil {
			logger.Error("Failed to create document", "client_id", clientID, "error", err)
			utils.ServiceUnavailable(c, "Storage is temporarily unavailable")
			return
		}

		logger.Info("Document created", "document_id", doc.ID, "client_id", clientID)
		c.JSON(http.StatusCreated, doc)
	}
}

func handleListDocuments(clients store.ClientStore, documents store.DocumentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, err := models.ParseClientID(c.Param("client_id"))
		if err != nil {
			utils.NotFound(c, "Client not found")
			return
		}

		offset, limit, err := utils.ParsePageParams(c.Query("offset"), c.Query("limit"))
		if err != nil {
			utils.Validation(c, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if _, err := clients.Get(ctx, clientID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.NotFound(c, "Client not found")
				return
			}
			logger.Error("Failed to verify client", "client_id", clientID, "error", err)
			utils.ServiceUnavailable(c, "Storage is temporarily unavailable")
			return
		}

		items, total, err := documents.ListByClient(ctx, clientID, offset, limit)
		if err != nil {
			logger.Error("Failed to list documents", "client_id", clientID, "error", err)
			utils.ServiceUnavailable(c, "Storage is temporarily unavailable")
			return
		}

		c.JSON(http.StatusOK, models.NewPage(items, total, offset, limit))
	}
}

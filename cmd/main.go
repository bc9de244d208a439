package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nevis-search-api/internal/ai"
	"nevis-search-api/internal/config"
	"nevis-search-api/internal/logger"
	"nevis-search-api/internal/search"
	"nevis-search-api/internal/store"
	"nevis-search-api/internal/telemetry"
	"nevis-search-api/middleware"
	"nevis-search-api/routes"
	"nevis-search-api/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing is optional; the service runs fine without a collector
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("nevis-search-api", cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown()
		}
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to initialize metrics:", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Redis backs the summary cache fast path; missing Redis just means
	// every cache lookup goes to MongoDB
	var redisClient *redis.Client
	if rdb, err := config.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, summary cache fast path disabled", "error", err)
	} else {
		redisClient = rdb
		defer redisClient.Close()
	}

	provider, err := ai.NewOpenAIClient(cfg, metrics)
	if err != nil {
		log.Fatal("Failed to initialize OpenAI client:", err)
	}

	db := mongoClient.Database(cfg.DBName)
	clients := store.NewMongoClientStore(db)
	documents := store.NewMongoDocumentStore(db)

	searchCfg := search.FromAppConfig(cfg)
	engine := search.NewEngine(clients, documents, provider, searchCfg)
	summaries := services.NewSummaryService(
		documents,
		provider,
		redisClient,
		time.Duration(cfg.SummaryCacheTTL)*time.Second,
		metrics,
	)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	router.Use(middleware.MetricsMiddleware(metrics))

	// Setup routes
	routes.SetupHealthRoutes(router, mongoClient, provider)
	routes.SetupClientRoutes(router, clients, documents, provider)
	routes.SetupDocumentRoutes(router, documents, summaries)
	routes.SetupSearchRoutes(router, engine, searchCfg, metrics)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

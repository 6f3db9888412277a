package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/lecture-insight-team/lecture-insight/pkg/validator"

	"github.com/lecture-insight-team/lecture-insight/internal/adapter/handler"
	"github.com/lecture-insight-team/lecture-insight/internal/domain/repositories"
	"github.com/lecture-insight-team/lecture-insight/internal/infrastructure/cache"
	"github.com/lecture-insight-team/lecture-insight/internal/infrastructure/external/transcription"
	"github.com/lecture-insight-team/lecture-insight/internal/infrastructure/storage"
	analysisuse "github.com/lecture-insight-team/lecture-insight/internal/usecase/analysis"
	"github.com/lecture-insight-team/lecture-insight/internal/usecase/report"
	"github.com/lecture-insight-team/lecture-insight/pkg/config"
	"github.com/lecture-insight-team/lecture-insight/pkg/scoring"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Run store: Redis when enabled, in-memory otherwise
	var runRepo repositories.RunRepository
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisRunStore(cfg)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v); falling back to in-memory run store", err)
			runRepo = cache.NewMemoryRunStore(cfg.Redis.RunTTL)
		} else {
			defer redisStore.Close()
			runRepo = redisStore
			log.Println("✅ Redis run store initialized")
		}
	} else {
		runRepo = cache.NewMemoryRunStore(cfg.Redis.RunTTL)
		log.Println("📦 Using in-memory run store")
	}

	// Artifact store is optional; without it results stay inline on the run
	var artifactRepo repositories.ArtifactRepository
	if cfg.Storage.Endpoint != "" {
		log.Println("🪣 Connecting to MinIO...")
		store, err := storage.NewMinIOArtifactStore(&cfg.Storage)
		if err != nil {
			log.Printf("⚠️  MinIO unavailable (%v); report uploads disabled", err)
		} else {
			artifactRepo = store
			log.Println("✅ MinIO artifact store initialized")
		}
	} else {
		log.Println("⚠️  STORAGE_ENDPOINT not set; report uploads disabled")
	}

	// Transcription provider is optional; webhook payloads that carry
	// transcript segments do not need it
	var transcriber analysisuse.Transcriber
	if cfg.AssemblyAI.APIKey != "" {
		transcriber = transcription.NewAssemblyAIProvider(&cfg.AssemblyAI, logger)
		log.Println("🎙️ AssemblyAI transcription provider initialized")
	} else {
		log.Println("⚠️  ASSEMBLYAI_API_KEY not set; recording URLs cannot be transcribed")
	}

	if cfg.Webhook.Secret == "" {
		log.Println("⚠️  WEBHOOK_SECRET not set; recording webhooks will be rejected")
	}

	// Initialize analysis pipeline
	log.Println("🤖 Initializing analysis pipeline...")
	scoringClient := scoring.NewClient(&cfg.Scoring)
	analyzer := analysisuse.NewAnalyzer(
		scoringClient,
		cfg.Scoring.Concurrency,
		cfg.Scoring.MaxRetries,
		cfg.Scoring.Strict(),
		logger,
	)
	formatter := report.NewFormatter(logger)
	analysisService := analysisuse.NewAnalysisService(
		transcriber,
		analyzer,
		formatter,
		runRepo,
		artifactRepo,
		nil,
		cfg,
		logger,
	)

	// Initialize handlers
	log.Println("🪝 Initializing handlers...")
	webhookHandler := handler.NewRecordingWebhookHandler(analysisService, cfg.Webhook.Secret, logger)
	analysisHandler := handler.NewAnalysisHandler(analysisService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, webhookHandler, analysisHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

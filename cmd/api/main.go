package main

import (
	"context"
	"log"
	"time"

	"github.com/applyos/applyos/internal/auth"
	"github.com/applyos/applyos/internal/config"
	"github.com/applyos/applyos/internal/database"
	"github.com/applyos/applyos/internal/handlers"
	"github.com/applyos/applyos/internal/metrics"
	"github.com/applyos/applyos/internal/middleware"
	"github.com/applyos/applyos/internal/services"
	"github.com/applyos/applyos/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func main() {
	// 1. Load Configuration (env + optional .env)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration:", err)
	}
	gin.SetMode(cfg.Server.Mode)

	// 2. Database Connection + Migrations
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// 3. Object Storage (MinIO when configured, memory otherwise)
	var store storage.ObjectStore
	if cfg.Storage.Endpoint != "" {
		mstore, err := storage.NewMinIOStore(cfg.Storage)
		if err != nil {
			log.Fatal("Failed to connect to MinIO:", err)
		}
		store = mstore
		log.Println("✅ MinIO storage connected.")
	} else {
		store = storage.NewMemoryStore()
		log.Println("⚠️  No MinIO endpoint configured; documents are held in memory only.")
	}

	// 4. Initialize Core Services
	llmService, err := services.NewLLMService(cfg.Gemini)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}
	appService := services.NewApplicationService(db)
	docService := services.NewDocumentService(db, store, llmService)
	questionService := services.NewQuestionService(db, llmService)
	analyticsService := services.NewAnalyticsService(db)
	importService := services.NewImportService(db)

	// 5. Initialize Gmail Integration (optional, reminder delivery only)
	var gmailService *gmail.Service
	httpClient, err := auth.GetGmailClient()
	if err != nil {
		log.Printf("⚠️  Gmail delivery disabled: %v", err)
	} else {
		gmailService, err = gmail.NewService(context.Background(), option.WithHTTPClient(httpClient))
		if err != nil {
			log.Printf("⚠️  Failed to create Gmail Service: %v", err)
		} else {
			log.Println("✅ Gmail Service connected successfully.")
		}
	}

	// 6. Initialize Reminder Sweeper
	notifyService := services.NewNotificationService(db, gmailService, cfg.Reminders.Interval, cfg.Reminders.Lookahead)
	notifyService.RecipientEmail = cfg.Reminders.Email
	notifyService.StartSweeper()

	// 7. Setup Router, CORS, Metrics, Rate Limiting
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // the extension posts from arbitrary origins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	registry := prometheus.NewRegistry()
	metrics.RegisterCollectors(registry)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("⚠️  Redis unreachable (%v); falling back to in-memory rate limiting.", err)
			redisClient = nil
		}
	}
	if cfg.RateLimit.Backend == "redis" && redisClient != nil {
		r.Use(middleware.RedisRateLimit(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, time.Second))
	} else {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	// 8. Define Routes
	h := &handlers.Handlers{
		Applications:  handlers.NewApplicationHandler(appService),
		Questions:     handlers.NewQuestionHandler(questionService, docService, llmService),
		Documents:     handlers.NewDocumentHandler(docService),
		Analytics:     handlers.NewAnalyticsHandler(analyticsService),
		Import:        handlers.NewImportHandler(importService),
		Capture:       handlers.NewCaptureHandler(llmService),
		Notifications: handlers.NewNotificationHandler(notifyService),
	}
	handlers.RegisterRoutes(r, h)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("🚀 Server starting on %s...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

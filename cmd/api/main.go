package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"milgapo/scholarship-matcher/internal/config"
	"milgapo/scholarship-matcher/internal/handlers"
	"milgapo/scholarship-matcher/internal/repositories"
	"milgapo/scholarship-matcher/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	questionnaireRepo := repositories.NewQuestionnaireRepository(db)
	matchRepo := repositories.NewUserScholarshipRepository(db)
	jobRunRepo := repositories.NewJobRunRepository(db)
	userRepo := repositories.NewUserRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	notionService := services.NewNotionService(cfg.Notion.Token, cfg.Notion.DatabaseID)
	if cfg.Redis.URL != "" {
		rdb, err := services.NewRedisClient(context.Background(), cfg.Redis.URL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to redis: %v", err)
		}
		notionService = services.NewCachedNotionService(notionService, rdb, cfg.Redis.CatalogTTL)
		log.Println("✅ Catalog cache enabled")
	}

	scorer := services.NewScorer(services.DefaultKeywordMap())
	matcherService := services.NewMatcherService(
		notionService,
		scorer,
		matchRepo,
		cfg.Matching.Threshold,
		cfg.Matching.Limit,
	)
	log.Println("✅ Matcher service initialized")

	makeService := services.NewMakeService(
		cfg.Make.WebhookURL,
		cfg.Make.APIKey,
		cfg.Make.TestEmail,
	)
	digestService := services.NewDigestService(
		notionService,
		makeService,
		jobRunRepo,
		userRepo,
		cfg.Digest.TimeZone,
		cfg.Digest.RunHour,
		cfg.Make.AdminEmail,
	)
	log.Println("✅ Services initialized successfully")

	// Start digest scheduler
	ctx := context.Background()
	scheduler := services.NewScheduler(digestService, cfg.Digest.CronSpec)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}

	// Initialize Handlers
	questionnaireHandler := handlers.NewQuestionnaireHandler(questionnaireRepo, matcherService)
	scholarshipHandler := handlers.NewScholarshipHandler(
		notionService,
		matcherService,
		questionnaireRepo,
		matchRepo,
	)
	digestHandler := handlers.NewDigestHandler(digestService)
	profileHandler := handlers.NewProfileHandler(userRepo, storageService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Scholarship Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Get("/questionnaire", questionnaireHandler.HandleGet)
	api.Put("/questionnaire", questionnaireHandler.HandleSubmit)
	api.Get("/scholarships", scholarshipHandler.HandleCatalog)
	api.Get("/my-scholarships", scholarshipHandler.HandleMyScholarships)
	api.Post("/my-scholarships/refresh", scholarshipHandler.HandleRefresh)
	api.Post("/my-scholarships/:id", scholarshipHandler.HandleUpdate)
	api.Post("/profile/image", profileHandler.HandleUploadImage)
	api.Post("/admin/digest/run", digestHandler.HandleRun)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Scholarship Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/questionnaire",
				"PUT /api/v1/questionnaire",
				"GET /api/v1/scholarships",
				"GET /api/v1/my-scholarships",
				"POST /api/v1/my-scholarships/refresh",
				"POST /api/v1/my-scholarships/:id",
				"POST /api/v1/profile/image",
				"POST /api/v1/admin/digest/run",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		scheduler.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

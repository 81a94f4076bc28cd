package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sandboxcaixa/ideation-backend/internal/agents"
	"github.com/sandboxcaixa/ideation-backend/internal/agents/filtrador"
	"github.com/sandboxcaixa/ideation-backend/internal/agents/ideia"
	"github.com/sandboxcaixa/ideation-backend/internal/ai"
	"github.com/sandboxcaixa/ideation-backend/internal/config"
	"github.com/sandboxcaixa/ideation-backend/internal/database"
	"github.com/sandboxcaixa/ideation-backend/internal/handlers"
	"github.com/sandboxcaixa/ideation-backend/internal/knowledge"
	"github.com/sandboxcaixa/ideation-backend/internal/logging"
	"github.com/sandboxcaixa/ideation-backend/internal/middleware"
	"github.com/sandboxcaixa/ideation-backend/internal/routes"
	"github.com/sandboxcaixa/ideation-backend/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// A missing model key disables the AI features instead of blocking
	// startup. Idea CRUD keeps working and /health reports the state.
	if cfg.GroqAPIKey == "" {
		slog.Warn("GROQ_API_KEY not set, moderation and ideation run in degraded mode")
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Stores
	ideaStore := storage.NewIdeaStore(db)
	chatStore := storage.NewChatStore(db)

	// Model client and knowledge bases
	aiClient := ai.NewClient(cfg.GroqAPIKey, cfg.GroqAPIURL, cfg.GroqModel, cfg.AITimeout)
	filtradorKnowledge := knowledge.Load(cfg.FiltradorKnowledgeDir)
	ideiaKnowledge := knowledge.Load(cfg.IdeiaKnowledgeDir)

	// Agents
	filtradorService := filtrador.NewService(aiClient, filtradorKnowledge)
	ideiaService := ideia.NewService(aiClient, ideiaKnowledge, cfg.GroqTemperature)
	agentList := []agents.Agent{
		filtrador.New(filtradorService),
		ideia.New(ideiaService, filtradorService, ideaStore, chatStore, cfg.ChatHistoryLimit),
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, filtradorService.Enabled, ideiaService.Enabled)
	ideaHandler := handlers.NewIdeaHandler(ideaStore)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))

	// Routes
	routes.Setup(app, healthHandler, ideaHandler, agentList)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

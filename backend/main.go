package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"skillforge/backend/config"
	"skillforge/backend/middleware"
	"skillforge/backend/routes"
	"skillforge/backend/scheduler"
	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Format:       cfg.LogFormat,
		EnableColors: cfg.LogFormat != "json",
	})

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatalf("Error initializing database: %v", err)
	}

	svc, err := services.New(db, services.SystemClock(cfg.Location))
	if err != nil {
		logger.Fatalf("Error initializing services: %v", err)
	}

	// Daily flashcard digest
	digest := scheduler.New(svc.Flashcards, scheduler.LogNotifier{Logger: logger}, cfg.Location, cfg.ReminderHour, logger)
	if err := digest.Start(); err != nil {
		logger.Fatalf("Error starting scheduler: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:     "skillforge",
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: "X-Request-ID, Content-Disposition",
	}))
	app.Use(middleware.RequestID())
	app.Use(middleware.LoggingMiddleware(logger, cfg.LogFormat != "json"))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, svc)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Println("Shutting down")
		digest.Stop()
		if err := app.Shutdown(); err != nil {
			logger.Printf("Error shutting down server: %v", err)
		}
	}()

	// Start server
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatalf("Server error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

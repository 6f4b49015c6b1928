package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	httpdelivery "github.com/Mayank-Ninawe/krishisat-ai/internal/delivery/http"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/logger"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/repository/postgres"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := loadConfig()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var store service.RecordStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal("could not connect to database", "err", err)
		}
		defer pool.Close()

		pgStore := postgres.NewPostgresStore(pool)
		if err := pgStore.InitSchema(ctx); err != nil {
			zlog.Fatal("could not init schema", "err", err)
		}
		store = pgStore
		zlog.Info("connected to PostgreSQL")
	} else {
		store = postgres.NewMemoryStore()
		zlog.Warn("DATABASE_URL not set, running with in-memory store")
	}

	// Dependency Injection: Services
	predictor := service.NewPredictorClient(cfg.MLServiceURL)
	signals := service.NewSignalGenerator()
	scanSvc := service.NewScanService(predictor, store, zlog.With("service", "scan"), cfg.MaxImageBytes)
	forecastSvc := service.NewForecastService(predictor, store, signals, zlog.With("service", "forecast"))
	profileSvc := service.NewProfileService(store)
	districtSvc := service.NewDistrictService(store)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "KrishiSat API v1.0",
		BodyLimit:    10 << 20,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		ErrorHandler: httpdelivery.NewErrorHandler(zlog.With("component", "http")),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	handler := httpdelivery.NewHandler(scanSvc, forecastSvc, profileSvc, districtSvc, predictor, store)
	auth := httpdelivery.NewAuthMiddleware(cfg.AuthJWTSecret)
	httpdelivery.SetupRoutes(app, handler, auth)

	// Graceful shutdown
	go func() {
		zlog.Info("server starting", "port", cfg.Port, "ml_service", cfg.MLServiceURL)
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server error", "err", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zlog.Error("server forced to shutdown", "err", err)
	}
	zlog.Info("server exited gracefully")
}

type Config struct {
	DatabaseURL   string
	MLServiceURL  string
	AuthJWTSecret string
	Port          string
	Env           string
	MaxImageBytes int
}

func loadConfig() *Config {
	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MLServiceURL:  getEnv("ML_SERVICE_URL", "http://localhost:8000"),
		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", "dev-secret"),
		Port:          getEnv("PORT", "5000"),
		Env:           getEnv("GO_ENV", "development"),
		MaxImageBytes: getEnvInt("MAX_IMAGE_BYTES", service.DefaultMaxImageBytes),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid %s=%q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solarsite/backend/internal/delivery/http"
	"github.com/solarsite/backend/internal/domain"
	"github.com/solarsite/backend/internal/repository/postgres"
	"github.com/solarsite/backend/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "solarsite",
	Short: "Solar site registry with PV power forecast charts",
	Long: `solarsite stores solar sites and renders PV power forecasts for them
from the Solcast API.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var initDBCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Drop and recreate the locations table with sample data",
	RunE:  runInitDB,
}

func init() {
	rootCmd.AddCommand(serveCmd, initDBCmd)
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment")
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// openRepository connects to Postgres and applies migrations.
// Without a reachable database it falls back to the in-memory store.
func openRepository(ctx context.Context, cfg *Config, log *zap.Logger, required bool) (service.LocationRepository, func(), error) {
	pool, err := connect(ctx, cfg.DatabaseURL)
	if err == nil {
		err = postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
		}
	}

	if err != nil {
		if required {
			return nil, nil, err
		}
		log.Warn("could not connect to database, running with in-memory store", zap.Error(err))
		return postgres.NewMemoryRepository(), func() {}, nil
	}

	log.Info("connected to PostgreSQL")
	return postgres.NewPostgresRepository(pool), pool.Close, nil
}

func connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	// Database connection
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	repo, closeRepo, err := openRepository(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer closeRepo()

	// Dependency Injection: Services
	solcast := service.NewSolcastClient(service.SolcastConfig{
		BaseURL:         cfg.SolcastBaseURL,
		Timeout:         cfg.SolcastTimeout,
		ForecastHours:   cfg.ForecastHours,
		DefaultCapacity: cfg.SolcastDefaultCapacity,
	}, log.Named("solcast"))
	forecastSvc := service.NewForecastService(repo, solcast, service.NewChartRenderer(), log.Named("forecast"))

	health := service.NewHealthMonitor(repo, cfg.HealthInterval, log.Named("health"))
	if err := health.Start(); err != nil {
		return fmt.Errorf("failed to start health monitor: %w", err)
	}
	defer health.Stop()

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Solarsite v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.SolcastTimeout*2 + 10*time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, repo, forecastSvc, health, log.Named("http"))

	// Graceful shutdown
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("store", repo.Backend()))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited gracefully")

	return nil
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	repo, closeRepo, err := openRepository(ctx, cfg, log, true)
	if err != nil {
		return fmt.Errorf("initdb needs a database: %w", err)
	}
	defer closeRepo()

	if err := repo.Reset(ctx, domain.SampleLocations); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	log.Info("database initialized with sample data", zap.Int("locations", len(domain.SampleLocations)))
	return nil
}

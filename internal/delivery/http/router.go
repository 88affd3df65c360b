package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/solarsite/backend/internal/service"
	"go.uber.org/zap"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, repo service.LocationRepository, forecastSvc *service.ForecastService, health *service.HealthMonitor, logger *zap.Logger) {
	handler := NewHandler(repo, forecastSvc, health, logger)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// Pages
	app.Get("/", handler.Index)
	app.Get("/forecast/:id", handler.Forecast)

	// Location API
	app.Get("/locations", handler.ListLocations)
	app.Post("/add_location", handler.AddLocation)
	app.Put("/update_location/:id", handler.UpdateLocation)
	app.Delete("/delete_location/:id", handler.DeleteLocation)
	app.Get("/get_location/:id", handler.GetLocation)
}

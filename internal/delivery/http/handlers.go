package http

import (
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/solarsite/backend/internal/domain"
	"github.com/solarsite/backend/internal/service"
	"go.uber.org/zap"
)

// Handler contains all HTTP handlers
type Handler struct {
	repo        service.LocationRepository
	forecastSvc *service.ForecastService
	health      *service.HealthMonitor
	logger      *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(repo service.LocationRepository, forecastSvc *service.ForecastService, health *service.HealthMonitor, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		repo:        repo,
		forecastSvc: forecastSvc,
		health:      health,
		logger:      logger,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := h.health.Status()
	if status.CheckedAt.IsZero() {
		status = h.health.Check(c.Context())
	}

	overall := "ok"
	code := fiber.StatusOK
	if !status.Healthy {
		overall = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   overall,
		"service":  "solarsite-backend",
		"version":  "1.0.0",
		"database": status,
	})
}

// Index renders the HTML list of locations
func (h *Handler) Index(c *fiber.Ctx) error {
	locations, err := h.repo.List(c.Context())
	if err != nil {
		h.logger.Error("failed to list locations", zap.Error(err))
		return renderError(c, fiber.StatusInternalServerError, "Failed to load locations")
	}

	return render(c, fiber.StatusOK, "index.html", fiber.Map{
		"Locations": locations,
	})
}

// ListLocations returns every location without its credential
func (h *Handler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.repo.List(c.Context())
	if err != nil {
		h.logger.Error("failed to list locations", zap.Error(err))
		return toFiberError(err, "Failed to fetch locations")
	}

	out := make([]domain.LocationSummary, 0, len(locations))
	for _, loc := range locations {
		out = append(out, loc.Summary())
	}

	return c.JSON(out)
}

// AddLocation creates a location from a validated JSON body
func (h *Handler) AddLocation(c *fiber.Ctx) error {
	in, err := parseLocationRequest(c)
	if err != nil {
		return toFiberError(err, "")
	}

	loc, err := h.repo.Create(c.Context(), in)
	if err != nil {
		h.logger.Error("failed to create location", zap.Error(err))
		return toFiberError(err, "Failed to add location")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Location added successfully",
		"id":      loc.ID,
	})
}

// UpdateLocation replaces every mutable field of a location
func (h *Handler) UpdateLocation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return toFiberError(err, "")
	}

	in, err := parseLocationRequest(c)
	if err != nil {
		return toFiberError(err, "")
	}

	if _, err := h.repo.Update(c.Context(), id, in); err != nil {
		if statusFor(err) == fiber.StatusInternalServerError {
			h.logger.Error("failed to update location", zap.Int64("location_id", id), zap.Error(err))
		}
		return toFiberError(err, "Failed to update location")
	}

	return c.JSON(fiber.Map{
		"message": "Location updated successfully",
	})
}

// DeleteLocation removes a location
func (h *Handler) DeleteLocation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return toFiberError(err, "")
	}

	if err := h.repo.Delete(c.Context(), id); err != nil {
		if statusFor(err) == fiber.StatusInternalServerError {
			h.logger.Error("failed to delete location", zap.Int64("location_id", id), zap.Error(err))
		}
		return toFiberError(err, "Failed to delete location")
	}

	return c.JSON(fiber.Map{
		"message": "Location deleted successfully",
	})
}

// GetLocation returns the full record
func (h *Handler) GetLocation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return toFiberError(err, "")
	}

	loc, err := h.repo.Get(c.Context(), id)
	if err != nil {
		if statusFor(err) == fiber.StatusInternalServerError {
			h.logger.Error("failed to get location", zap.Int64("location_id", id), zap.Error(err))
		}
		return toFiberError(err, "Failed to fetch location")
	}

	return c.JSON(loc)
}

// Forecast renders the chart page for a location
func (h *Handler) Forecast(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return renderError(c, fiber.StatusBadRequest, "Invalid location id")
	}

	chart, err := h.forecastSvc.Generate(c.Context(), id)
	if err != nil {
		code := statusFor(err)
		if code == fiber.StatusNotFound {
			return renderError(c, code, "Location not found")
		}
		// The service already logged the cause
		return renderError(c, fiber.StatusInternalServerError, ForecastErrorMessage)
	}

	return render(c, fiber.StatusOK, "forecast.html", fiber.Map{
		"Chart":    chart,
		"ImageURL": template.URL("data:image/png;base64," + chart.Image),
	})
}

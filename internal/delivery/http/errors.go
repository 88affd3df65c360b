package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/solarsite/backend/internal/domain"
)

// ForecastErrorMessage is the only failure detail shown for the forecast page
const ForecastErrorMessage = "Error generating forecast. Please check the API key and try again."

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	default:
		// ErrUpstream, ErrRender and anything unexpected
		return fiber.StatusInternalServerError
	}
}

// toFiberError converts a domain error into a fiber error with a client-safe message
func toFiberError(err error, fallback string) *fiber.Error {
	code := statusFor(err)
	switch code {
	case fiber.StatusNotFound:
		return fiber.NewError(code, "Location not found")
	case fiber.StatusBadRequest:
		return fiber.NewError(code, strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": "))
	default:
		return fiber.NewError(code, fallback)
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

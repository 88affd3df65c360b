package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/solarsite/backend/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names so messages match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// locationRequest is the body of add_location and update_location
type locationRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	APIKey    string   `json:"api_key" validate:"required,max=100"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Capacity  *float64 `json:"capacity,omitempty" validate:"omitempty,gt=0"`
}

func (r locationRequest) toInput() domain.LocationInput {
	return domain.LocationInput{
		Name:      strings.TrimSpace(r.Name),
		APIKey:    strings.TrimSpace(r.APIKey),
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
		Capacity:  r.Capacity,
	}
}

// parseLocationRequest decodes and validates the JSON body
func parseLocationRequest(c *fiber.Ctx) (domain.LocationInput, error) {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.LocationInput{}, fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.APIKey = strings.TrimSpace(req.APIKey)

	if err := validate.Struct(req); err != nil {
		return domain.LocationInput{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}

	return req.toInput(), nil
}

// parseID reads the positive integer :id route parameter
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", domain.ErrInvalidInput)
	}
	return int64(id), nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "latitude", "longitude":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid %s", fe.Field(), fe.Tag()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

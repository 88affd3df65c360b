package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a location id does not exist
	ErrNotFound = errors.New("location not found")

	// ErrInvalidInput is returned for request payloads that fail validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstream marks any failure talking to the forecasting API
	ErrUpstream = errors.New("forecast retrieval failed")

	// ErrRender marks a failure turning series into an image
	ErrRender = errors.New("chart rendering failed")
)

// UpstreamError reports a non-success status returned by the forecasting API
type UpstreamError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrUpstream, e.Endpoint, e.StatusCode)
}

// Is makes errors.Is(err, ErrUpstream) hold for any *UpstreamError
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

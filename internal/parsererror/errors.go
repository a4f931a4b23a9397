// Package parsererror defines the typed errors surfaced by the pipeline.
package parsererror

import "fmt"

// ParseError represents a structural problem with a user-supplied CSV file:
// too few lines or required columns missing. It aborts the whole load
// operation; malformed individual rows never produce one.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv parse failed: %s", e.Reason)
}

// NetworkError represents a failed call to the dashboard API or an
// exchange-rate endpoint. Callers recover from it locally (fall back to
// scraped data or 1:1 rates); it is never fatal to the pipeline.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

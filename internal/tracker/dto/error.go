package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Validation sentinels. These fail before any provider or store call is made.
var (
	ErrEmptyTicker        = errors.New("ticker must be a non-empty string")
	ErrEmptyName          = errors.New("name must be a non-empty string")
	ErrNoEventTypes       = errors.New("at least one event type is required")
	ErrInvalidEventType   = errors.New("invalid event type")
	ErrEmptyToken         = errors.New("calendar token must not be empty")
	ErrEmptyWatchlistName = errors.New("watchlist name is required")
)

// Not-found sentinels.
var (
	ErrStockNotFound     = errors.New("stock not found")
	ErrWatchlistNotFound = errors.New("watchlist not found")
)

// ProviderError describes the failure of a single external provider call.
// StatusCode is zero for transport failures. Rate limits reported inside a
// 200 body are normalized to StatusCode 429 by the client.
type ProviderError struct {
	Provider   string
	Operation  string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the same call may succeed if retried. Rate
// limits, server-side failures and transport errors qualify.
func (e *ProviderError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// LookupError reports that every provider in the fallback chain failed for
// one query. Its message carries each provider's own failure so the caller
// can see the full picture in a single line.
type LookupError struct {
	Query    string
	Attempts []*ProviderError
}

func (e *LookupError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", attempt.Provider, attempt.Err))
	}
	return fmt.Sprintf("failed to fetch stock data for %q from all sources. %s", e.Query, strings.Join(parts, ", "))
}

// StoreError wraps a failure of the persistence layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

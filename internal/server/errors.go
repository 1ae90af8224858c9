// Package server provides the HTTP REST API for resume analysis.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/llm"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrRunNotFound indicates the requested analysis run does not exist
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("run not found: %s", e.RunID)
}

// ErrPersistenceDisabled indicates a run-backed endpoint was called without
// a configured database
type ErrPersistenceDisabled struct{}

func (e *ErrPersistenceDisabled) Error() string {
	return "persistence is not configured on this server"
}

// ErrIngestion indicates a document could not be ingested
type ErrIngestion struct {
	Message string
}

func (e *ErrIngestion) Error() string {
	return fmt.Sprintf("ingestion error: %s", e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var chainErr *llm.ChainError
	if errors.As(err, &chainErr) {
		return http.StatusServiceUnavailable
	}

	switch err.(type) {
	case *ErrValidation, *ErrIngestion:
		return http.StatusBadRequest
	case *ErrRunNotFound:
		return http.StatusNotFound
	case *ErrPersistenceDisabled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

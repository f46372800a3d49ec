package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/resume-scorer/internal/document"
	"github.com/jonathan/resume-scorer/internal/evaluation"
	"github.com/jonathan/resume-scorer/internal/extraction"
	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/source"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for a pipeline error
func HTTPStatus(err error) int {
	var (
		extractErr *document.ExtractionError
		schemaErr  *extraction.SchemaMismatchError
		apiErr     *extraction.APICallError
		evalErr    *evaluation.EvaluationError
		timeoutErr *llm.TimeoutError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, source.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &extractErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &schemaErr), errors.As(err, &apiErr), errors.As(err, &evalErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// stageOf names the failed pipeline stage, if any.
func stageOf(err error) string {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}

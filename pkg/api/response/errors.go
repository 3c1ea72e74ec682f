package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/dskvich/claim-analyzer/pkg/domain"
)

const (
	CodeDocumentsMissing   = "DOCUMENTS_MISSING"
	CodeInvalidDocument    = "INVALID_DOCUMENT"
	CodeUnsupportedModel   = "UNSUPPORTED_MODEL"
	CodeAnalysisInProgress = "ANALYSIS_IN_PROGRESS"
	CodeExtractionError    = "EXTRACTION_ERROR"
	CodeConfigurationError = "CONFIGURATION_ERROR"
	CodeUpstreamTimeout    = "UPSTREAM_TIMEOUT"
	CodeUpstreamError      = "UPSTREAM_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Classify maps an analysis error onto an HTTP status and a stable error code.
func Classify(err error) (int, string) {
	var (
		extractionErr *domain.ExtractionError
		configErr     *domain.ConfigurationError
		upstreamErr   *domain.UpstreamError
	)

	switch {
	case errors.Is(err, domain.ErrDocumentsMissing):
		return http.StatusBadRequest, CodeDocumentsMissing
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest, CodeInvalidDocument
	case errors.Is(err, domain.ErrUnsupportedModel):
		return http.StatusBadRequest, CodeUnsupportedModel
	case errors.Is(err, domain.ErrAnalysisInProgress):
		return http.StatusConflict, CodeAnalysisInProgress
	case errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity, CodeExtractionError
	case errors.As(err, &configErr):
		return http.StatusInternalServerError, CodeConfigurationError
	case errors.As(err, &upstreamErr) && errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeUpstreamTimeout
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, CodeUpstreamError
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// UserMessage returns the message shown to the user: the innermost typed error
// without the call-site wrapping added on the way up.
func UserMessage(err error) string {
	var (
		extractionErr *domain.ExtractionError
		configErr     *domain.ConfigurationError
		upstreamErr   *domain.UpstreamError
	)

	switch {
	case errors.As(err, &extractionErr):
		return extractionErr.Error()
	case errors.As(err, &configErr):
		return configErr.Error()
	case errors.As(err, &upstreamErr):
		return upstreamErr.Error()
	default:
		return err.Error()
	}
}

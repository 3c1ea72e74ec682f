package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentsMissing   = errors.New("both the policy wording and the hospital bill PDFs are required")
	ErrAnalysisInProgress = errors.New("an analysis is already running for this session")
	ErrUnsupportedModel   = errors.New("unsupported model")
	ErrInvalidDocument    = errors.New("file is not a PDF document")
	ErrNotFound           = errors.New("not found")
)

// ExtractionError reports a document that could not be read as a PDF.
type ExtractionError struct {
	Document DocumentKind
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Document == "" {
		return fmt.Sprintf("extracting text: %v", e.Err)
	}
	return fmt.Sprintf("extracting text from %s: %v", e.Document.Title(), e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ConfigurationError reports missing or invalid process configuration, such as an absent API key.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// UpstreamError reports a failed call to the chat-completion provider.
// StatusCode is zero when no HTTP response was received.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion request failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

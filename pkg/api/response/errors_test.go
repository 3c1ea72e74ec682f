package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dskvich/claim-analyzer/pkg/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"documents missing", domain.ErrDocumentsMissing, http.StatusBadRequest, CodeDocumentsMissing},
		{"invalid document", fmt.Errorf("bill: %w", domain.ErrInvalidDocument), http.StatusBadRequest, CodeInvalidDocument},
		{"unsupported model", &domain.UpstreamError{Err: fmt.Errorf("%w: x", domain.ErrUnsupportedModel)}, http.StatusBadRequest, CodeUnsupportedModel},
		{"in progress", domain.ErrAnalysisInProgress, http.StatusConflict, CodeAnalysisInProgress},
		{"extraction", fmt.Errorf("extracting: %w", &domain.ExtractionError{Err: errors.New("bad")}), http.StatusUnprocessableEntity, CodeExtractionError},
		{"configuration", &domain.ConfigurationError{Setting: "OPENAI_API_KEY", Err: errors.New("unset")}, http.StatusInternalServerError, CodeConfigurationError},
		{"timeout", &domain.UpstreamError{Err: fmt.Errorf("slow: %w", context.DeadlineExceeded)}, http.StatusGatewayTimeout, CodeUpstreamTimeout},
		{"upstream", &domain.UpstreamError{StatusCode: 429, Err: errors.New("rate")}, http.StatusBadGateway, CodeUpstreamError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := Classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestUserMessage_StripsCallSiteWrapping(t *testing.T) {
	err := fmt.Errorf("creating chat completion: %w", &domain.UpstreamError{StatusCode: 429, Err: errors.New("Rate limit reached")})

	msg := UserMessage(err)

	assert.Equal(t, "completion request failed (status 429): Rate limit reached", msg)
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}

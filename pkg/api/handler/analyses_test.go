package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/claim-analyzer/pkg/api/response"
	"github.com/dskvich/claim-analyzer/pkg/domain"
	"github.com/dskvich/claim-analyzer/pkg/testutil"
)

type fakeAnalyzer struct {
	analysis *domain.Analysis
	err      error

	calls int
	req   domain.AnalysisRequest
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req domain.AnalysisRequest) (*domain.Analysis, error) {
	f.calls++
	f.req = req
	return f.analysis, f.err
}

func multipartRequest(t *testing.T, files map[string][]byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, data := range files {
		part, err := w.CreateFormFile(field, field+".pdf")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func serve(h *analyses, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	_ = h.Create(c)
	return rec
}

func TestAnalyses_Create(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: &domain.Analysis{
		Model:    "gpt-4o",
		Content:  "**Final approved amount:** 15000",
		Usage:    domain.Usage{TotalTokens: 99},
		Duration: 1500 * time.Millisecond,
	}}
	h := NewAnalyses(analyzer, domain.SupportedModels, domain.DefaultModel)

	req := multipartRequest(t,
		map[string][]byte{"policy": testutil.BuildPDF("policy"), "bill": testutil.BuildPDF("bill")},
		map[string]string{"model": "gpt-4o", "prompt": "be brief"},
	)
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp response.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "gpt-4o", resp.Model)
	assert.Equal(t, "**Final approved amount:** 15000", resp.Analysis)
	assert.Contains(t, resp.HTML, "<strong>Final approved amount:</strong>")
	assert.Equal(t, 99, resp.Usage.TotalTokens)
	assert.Equal(t, int64(1500), resp.DurationMs)

	assert.Equal(t, "gpt-4o", analyzer.req.Model)
	assert.Equal(t, "be brief", analyzer.req.CustomPrompt)
	assert.Equal(t, "policy.pdf", analyzer.req.Policy.Name)
	assert.Equal(t, "bill.pdf", analyzer.req.Bill.Name)
}

func TestAnalyses_CreateRejectsBadInput(t *testing.T) {
	pdf := testutil.BuildPDF("x")

	tests := []struct {
		name     string
		files    map[string][]byte
		fields   map[string]string
		wantCode string
	}{
		{name: "missing bill", files: map[string][]byte{"policy": pdf}, wantCode: response.CodeDocumentsMissing},
		{name: "missing both", wantCode: response.CodeDocumentsMissing},
		{name: "bill is not a pdf", files: map[string][]byte{"policy": pdf, "bill": []byte("plain text")}, wantCode: response.CodeInvalidDocument},
		{name: "empty policy", files: map[string][]byte{"policy": {}, "bill": pdf}, wantCode: response.CodeInvalidDocument},
		{
			name:     "unsupported model",
			files:    map[string][]byte{"policy": pdf, "bill": pdf},
			fields:   map[string]string{"model": "text-davinci-003"},
			wantCode: response.CodeUnsupportedModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{}
			h := NewAnalyses(analyzer, domain.SupportedModels, domain.DefaultModel)

			rec := serve(h, multipartRequest(t, tt.files, tt.fields))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Zero(t, analyzer.calls)
		})
	}
}

func TestAnalyses_CreateMapsAnalyzerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"extraction", &domain.ExtractionError{Document: domain.DocumentBill, Err: errors.New("invalid header")}, http.StatusUnprocessableEntity, response.CodeExtractionError},
		{"configuration", &domain.ConfigurationError{Setting: "OPENAI_API_KEY", Err: errors.New("API key is not set")}, http.StatusInternalServerError, response.CodeConfigurationError},
		{"upstream", &domain.UpstreamError{StatusCode: 429, Err: errors.New("Rate limit reached")}, http.StatusBadGateway, response.CodeUpstreamError},
		{"timeout", &domain.UpstreamError{Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, response.CodeUpstreamTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAnalyses(&fakeAnalyzer{err: tt.err}, domain.SupportedModels, domain.DefaultModel)
			pdf := testutil.BuildPDF("x")

			rec := serve(h, multipartRequest(t, map[string][]byte{"policy": pdf, "bill": pdf}, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.err.Error(), resp.Message)
		})
	}
}

func TestAnalyses_Models(t *testing.T) {
	h := NewAnalyses(&fakeAnalyzer{}, domain.SupportedModels, domain.DefaultModel)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/models", nil), rec)

	require.NoError(t, h.Models(c))

	var resp response.ModelsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.SupportedModels, resp.Models)
	assert.Equal(t, "gpt-4", resp.Default)
}

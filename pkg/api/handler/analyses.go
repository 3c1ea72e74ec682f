package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/dskvich/claim-analyzer/pkg/api/response"
	"github.com/dskvich/claim-analyzer/pkg/domain"
	"github.com/dskvich/claim-analyzer/pkg/logger"
	"github.com/dskvich/claim-analyzer/pkg/render"
	"github.com/dskvich/claim-analyzer/pkg/upload"
)

type ClaimAnalyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Analysis, error)
}

type analyses struct {
	analyzer     ClaimAnalyzer
	models       []string
	defaultModel string
	writer       response.JSONResponseWriter
}

func NewAnalyses(analyzer ClaimAnalyzer, models []string, defaultModel string) *analyses {
	return &analyses{
		analyzer:     analyzer,
		models:       models,
		defaultModel: defaultModel,
		writer:       response.JSONResponseWriter{},
	}
}

// Create runs one analysis from a multipart request with "policy" and "bill" files and
// optional "model" and "prompt" fields.
func (a *analyses) Create(c echo.Context) error {
	ctx := c.Request().Context()

	policy, err := upload.Document(c, domain.DocumentPolicy)
	if err != nil {
		return a.writeError(c, err)
	}
	bill, err := upload.Document(c, domain.DocumentBill)
	if err != nil {
		return a.writeError(c, err)
	}
	if policy == nil || bill == nil {
		return a.writeError(c, domain.ErrDocumentsMissing)
	}

	model := lo.Ternary(c.FormValue("model") != "", c.FormValue("model"), a.defaultModel)
	if !lo.Contains(a.models, model) {
		return a.writer.WriteErrorResponse(c, http.StatusBadRequest, response.CodeUnsupportedModel, "unsupported model: "+model)
	}

	analysis, err := a.analyzer.Analyze(ctx, domain.AnalysisRequest{
		Policy:       policy,
		Bill:         bill,
		Model:        model,
		CustomPrompt: c.FormValue("prompt"),
	})
	if err != nil {
		return a.writeError(c, err)
	}

	return a.writer.WriteSuccessResponse(c, http.StatusOK, response.AnalysisResponse{
		Model:      analysis.Model,
		Analysis:   analysis.Content,
		HTML:       string(render.ToHTML(analysis.Content)),
		Usage:      analysis.Usage,
		DurationMs: analysis.Duration.Milliseconds(),
	})
}

func (a *analyses) Models(c echo.Context) error {
	return a.writer.WriteSuccessResponse(c, http.StatusOK, response.ModelsResponse{
		Models:  a.models,
		Default: a.defaultModel,
	})
}

func (a *analyses) writeError(c echo.Context, err error) error {
	status, code := response.Classify(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "Analysis request failed", "code", code, logger.Err(err))
	} else {
		slog.WarnContext(c.Request().Context(), "Analysis request rejected", "code", code, logger.Err(err))
	}
	return a.writer.WriteErrorResponse(c, status, code, response.UserMessage(err))
}

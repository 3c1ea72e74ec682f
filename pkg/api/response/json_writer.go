package response

import (
	"github.com/labstack/echo/v4"

	"github.com/dskvich/claim-analyzer/pkg/domain"
)

type JSONResponseWriter struct{}

func (j *JSONResponseWriter) WriteSuccessResponse(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, data)
}

func (j *JSONResponseWriter) WriteErrorResponse(c echo.Context, statusCode int, code, message string) error {
	return c.JSON(statusCode, ErrorResponse{Code: code, Message: message})
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AnalysisResponse struct {
	Model      string       `json:"model"`
	Analysis   string       `json:"analysis"`
	HTML       string       `json:"html"`
	Usage      domain.Usage `json:"usage"`
	DurationMs int64        `json:"duration_ms"`
}

type ModelsResponse struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

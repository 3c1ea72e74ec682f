package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dskvich/claim-analyzer/pkg/api/handler"
	"github.com/dskvich/claim-analyzer/pkg/api/response"
	"github.com/dskvich/claim-analyzer/pkg/logger"
)

type Config struct {
	Models       []string
	DefaultModel string
	SessionTTL   time.Duration
	// BodyLimit caps request bodies, e.g. "64M". Empty disables the cap.
	BodyLimit string
}

// NewServer builds the router for the analyzer page and the JSON API.
func NewServer(analyzer ClaimAnalyzer, sessions SessionRepository, cfg Config) (*echo.Echo, error) {
	renderer, err := newTemplateRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = errorHandler

	e.Use(RequestID)
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	p := newPages(analyzer, sessions, cfg)
	e.GET("/", p.Index)
	e.POST("/documents", p.Upload)
	e.POST("/documents/:kind/remove", p.RemoveDocument)
	e.POST("/analyze", p.Analyze)
	e.POST("/reset", p.Reset)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})

	api := handler.NewAnalyses(analyzer, cfg.Models, cfg.DefaultModel)
	v1 := e.Group("/api/v1")
	v1.GET("/models", api.Models)
	v1.POST("/analyses", api.Create)

	return e, nil
}

// errorHandler answers API routes with a JSON error body and everything else with plain text.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	} else {
		slog.ErrorContext(c.Request().Context(), "Unhandled error", logger.Err(err))
	}

	var writeErr error
	switch {
	case c.Request().Method == http.MethodHead:
		writeErr = c.NoContent(status)
	case strings.HasPrefix(c.Request().URL.Path, "/api/"):
		writeErr = c.JSON(status, response.ErrorResponse{Code: strings.ReplaceAll(strings.ToUpper(http.StatusText(status)), " ", "_"), Message: message})
	default:
		writeErr = c.String(status, message)
	}
	if writeErr != nil {
		slog.ErrorContext(c.Request().Context(), "Writing error response", logger.Err(writeErr))
	}
}

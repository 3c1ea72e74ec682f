package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

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

type pages struct {
	analyzer     ClaimAnalyzer
	sessions     SessionRepository
	models       []string
	defaultModel string
	sessionTTL   time.Duration
}

func newPages(analyzer ClaimAnalyzer, sessions SessionRepository, cfg Config) *pages {
	return &pages{
		analyzer:     analyzer,
		sessions:     sessions,
		models:       cfg.Models,
		defaultModel: cfg.DefaultModel,
		sessionTTL:   cfg.SessionTTL,
	}
}

type documentView struct {
	Name string
	Size int
}

type pageView struct {
	State        domain.SessionState
	Policy       *documentView
	Bill         *documentView
	Models       []string
	Model        string
	CustomPrompt string
	Notice       string
	Error        string
	CanAnalyze   bool
	Result       *domain.Analysis
	ResultHTML   template.HTML
}

func (p *pages) Index(c echo.Context) error {
	s := p.session(c)

	// The notice is shown once.
	if s.Notice != "" {
		_, _ = p.sessions.Update(s.ID, func(stored *domain.Session) error {
			stored.Notice = ""
			return nil
		})
	}

	view := pageView{
		State:        s.State,
		Policy:       toDocumentView(s.Policy),
		Bill:         toDocumentView(s.Bill),
		Models:       p.models,
		Model:        lo.Ternary(s.Model != "", s.Model, p.defaultModel),
		CustomPrompt: s.CustomPrompt,
		Notice:       s.Notice,
		CanAnalyze:   s.CanAnalyze(),
	}

	switch {
	case s.State == domain.StateDone && s.Result != nil:
		view.Result = s.Result
		view.ResultHTML = render.ToHTML(s.Result.Content)
	case s.State == domain.StateFailed:
		view.Error = s.LastError
	}

	return c.Render(http.StatusOK, "index.html", view)
}

// Upload stores the submitted PDFs and settings in the session.
func (p *pages) Upload(c echo.Context) error {
	s := p.session(c)

	docs, uploadErr := p.readUploads(c)

	_, err := p.sessions.Update(s.ID, func(stored *domain.Session) error {
		p.applySettings(c, stored)
		for _, doc := range docs {
			stored.Attach(doc)
		}
		if uploadErr != nil {
			stored.Notice = response.UserMessage(uploadErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

func (p *pages) RemoveDocument(c echo.Context) error {
	s := p.session(c)
	kind := domain.DocumentKind(c.Param("kind"))

	if kind != domain.DocumentPolicy && kind != domain.DocumentBill {
		return echo.NewHTTPError(http.StatusNotFound, "unknown document "+string(kind))
	}

	if _, err := p.sessions.Update(s.ID, func(stored *domain.Session) error {
		stored.Detach(kind)
		return nil
	}); err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// Analyze runs the claim analysis synchronously; the response is sent only once the
// analysis has completed or failed.
func (p *pages) Analyze(c echo.Context) error {
	ctx := c.Request().Context()
	s := p.session(c)

	docs, uploadErr := p.readUploads(c)
	model := lo.Ternary(c.FormValue("model") != "", c.FormValue("model"), p.defaultModel)

	var (
		req     domain.AnalysisRequest
		refusal error
	)
	if _, err := p.sessions.Update(s.ID, func(stored *domain.Session) error {
		p.applySettings(c, stored)
		for _, doc := range docs {
			stored.Attach(doc)
		}

		switch {
		case uploadErr != nil:
			refusal = uploadErr
		case !lo.Contains(p.models, model):
			refusal = fmt.Errorf("%w: %q", domain.ErrUnsupportedModel, model)
		default:
			req, refusal = stored.Begin(model, c.FormValue("prompt"))
		}
		if refusal != nil {
			stored.Notice = response.UserMessage(refusal)
		}
		return nil
	}); err != nil {
		slog.InfoContext(ctx, "Analysis not started", "session", s.ID, logger.Err(err))
		return c.Redirect(http.StatusSeeOther, "/")
	}

	if refusal != nil {
		slog.InfoContext(ctx, "Analysis not started", "session", s.ID, logger.Err(refusal))
		return c.Redirect(http.StatusSeeOther, "/")
	}

	finished := false
	defer func() {
		if !finished {
			p.finishAnalysis(ctx, s.ID, nil, errors.New("analysis aborted unexpectedly"))
		}
	}()

	analysis, err := p.analyzer.Analyze(ctx, req)
	finished = true

	p.finishAnalysis(ctx, s.ID, analysis, err)

	return c.Redirect(http.StatusSeeOther, "/")
}

// finishAnalysis moves the session out of Analyzing.
func (p *pages) finishAnalysis(ctx context.Context, sessionID string, analysis *domain.Analysis, err error) {
	if _, updateErr := p.sessions.Update(sessionID, func(stored *domain.Session) error {
		if err != nil {
			stored.Fail(errors.New(response.UserMessage(err)))
			return nil
		}
		stored.Complete(analysis)
		return nil
	}); updateErr != nil {
		slog.WarnContext(ctx, "Session vanished during analysis", "session", sessionID, logger.Err(updateErr))
	}

	if err != nil {
		slog.WarnContext(ctx, "Claim analysis failed", "session", sessionID, logger.Err(err))
	}
}

func (p *pages) Reset(c echo.Context) error {
	s := p.session(c)

	if _, err := p.sessions.Update(s.ID, func(stored *domain.Session) error {
		stored.Reset()
		return nil
	}); err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// readUploads returns every valid document in the form and the first rejected one, if any.
func (p *pages) readUploads(c echo.Context) ([]*domain.Document, error) {
	var (
		docs     []*domain.Document
		firstErr error
	)

	for _, kind := range []domain.DocumentKind{domain.DocumentPolicy, domain.DocumentBill} {
		doc, err := upload.Document(c, kind)
		switch {
		case err != nil && firstErr == nil:
			firstErr = err
		case doc != nil:
			docs = append(docs, doc)
		}
	}

	return docs, firstErr
}

func (p *pages) applySettings(c echo.Context, s *domain.Session) {
	if model := c.FormValue("model"); lo.Contains(p.models, model) {
		s.Model = model
	}
	if c.Request().PostForm.Has("prompt") {
		s.CustomPrompt = c.FormValue("prompt")
	}
}

func toDocumentView(doc *domain.Document) *documentView {
	if doc.Empty() {
		return nil
	}
	return &documentView{Name: doc.Name, Size: doc.Size()}
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/dskvich/claim-analyzer/pkg/domain"
	"github.com/dskvich/claim-analyzer/pkg/logger"
	"github.com/dskvich/claim-analyzer/pkg/prompt"
)

type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, model string, messages []domain.ChatMessage) (domain.Completion, error)
}

type claimService struct {
	extractor    TextExtractor
	completion   CompletionClient
	defaultModel string
	now          func() time.Time
}

func NewClaimService(
	extractor TextExtractor,
	completion CompletionClient,
	defaultModel string,
) *claimService {
	return &claimService{
		extractor:    extractor,
		completion:   completion,
		defaultModel: lo.Ternary(defaultModel != "", defaultModel, domain.DefaultModel),
		now:          time.Now,
	}
}

// Analyze extracts both documents and asks the model for a settlement decision.
// The completion is not requested unless both extractions succeed.
func (c *claimService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Analysis, error) {
	if req.Policy.Empty() || req.Bill.Empty() {
		return nil, domain.ErrDocumentsMissing
	}

	model := lo.Ternary(req.Model != "", req.Model, c.defaultModel)
	started := c.now()

	slog.InfoContext(ctx, "Analyzing claim",
		"model", model,
		"policy", req.Policy.Name, "policyBytes", req.Policy.Size(),
		"bill", req.Bill.Name, "billBytes", req.Bill.Size(),
		"customPrompt", req.CustomPrompt != "",
	)

	policyText, err := c.extractor.Extract(ctx, req.Policy)
	if err != nil {
		return nil, fmt.Errorf("extracting policy text: %w", err)
	}

	billText, err := c.extractor.Extract(ctx, req.Bill)
	if err != nil {
		return nil, fmt.Errorf("extracting bill text: %w", err)
	}

	promptSet := prompt.Compose(req.CustomPrompt, policyText, billText)

	slog.InfoContext(ctx, "Calling OpenAI for chat completion", "model", model, "userMessageChars", len(promptSet.User))

	completion, err := c.completion.CreateChatCompletion(ctx, model, promptSet.Messages())
	if err != nil {
		slog.ErrorContext(ctx, "Chat completion failed", "model", model, logger.Err(err))
		return nil, fmt.Errorf("creating chat completion: %w", err)
	}

	analysis := &domain.Analysis{
		Model:     completion.Model,
		Content:   completion.Content,
		Usage:     completion.Usage,
		Duration:  c.now().Sub(started),
		CreatedAt: c.now(),
	}

	slog.InfoContext(ctx, "Claim analysis complete",
		"model", analysis.Model,
		"duration", analysis.Duration,
		"totalTokens", analysis.Usage.TotalTokens,
	)

	return analysis, nil
}

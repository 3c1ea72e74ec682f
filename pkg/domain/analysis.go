package domain

import "time"

type AnalysisRequest struct {
	Policy       *Document
	Bill         *Document
	Model        string
	CustomPrompt string
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the text of the first choice returned by the chat endpoint.
type Completion struct {
	Model   string
	Content string
	Usage   Usage
}

type Analysis struct {
	Model     string
	Content   string
	Usage     Usage
	Duration  time.Duration
	CreatedAt time.Time
}

package domain

const (
	ChatMessageRoleSystem = "system"
	ChatMessageRoleUser   = "user"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PromptSet is the pair of messages sent for a single analysis run.
type PromptSet struct {
	System string
	User   string
}

func (p PromptSet) Messages() []ChatMessage {
	return []ChatMessage{
		{Role: ChatMessageRoleSystem, Content: p.System},
		{Role: ChatMessageRoleUser, Content: p.User},
	}
}

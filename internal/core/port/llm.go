package port

import "context"

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

// LLMPort is the outbound contract toward a chat-completion API. The
// adapter owns the model name and credentials; callers only shape the
// conversation and sampling parameters.
type LLMPort interface {
	Complete(ctx context.Context, request ChatRequest) (string, error)
}

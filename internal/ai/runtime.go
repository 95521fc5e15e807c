package ai

import "context"

// Runtime is the inference backend a conversation talks to.
// The local Ollama client is the only production implementation.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// DisplayName returns the transcript label for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// Message is one chat turn. Messages are never mutated after being appended to a log.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage and AssistantMessage build turns for the two conversational roles.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

type GenerateRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	// ContextTokens is forwarded as the backend context window when > 0.
	ContextTokens int `json:"context_tokens,omitempty"`
	// Temperature is forwarded when > 0; 0 means the backend's default.
	Temperature float64 `json:"temperature,omitempty"`
}

type GenerateResponse struct {
	Message   Message `json:"message"`
	RequestID string  `json:"-"`
}

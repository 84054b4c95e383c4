package domain

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is the provider-agnostic chat message shape used by the use case
// and the completion provider adapters.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

package usecase

import (
	"strings"

	"consult-agent/internal/domain"
)

// BuildSystemPrompt joins the fixed behavior rules with the formatted knowledge
// block. It is called once at startup; an empty knowledge block still yields a
// usable prompt.
func BuildSystemPrompt(knowledge string) string {
	return strings.Join([]string{
		"You are an AI consultant for the food product development services described below.",
		"",
		"RULES:",
		behaviorRules(),
		"",
		knowledge,
	}, "\n")
}

func behaviorRules() string {
	return strings.Join([]string{
		"1. Answer ONLY based on the information below.",
		"2. Be friendly and professional.",
		"3. If asked about something that is not in the data, suggest getting in touch directly.",
		"4. Keep answers short and to the point (2-4 sentences).",
		"5. If the client is interested, suggest leaving contact details or writing by email or Telegram.",
		"6. Say \"I\" when talking about the services; they are your services.",
	}, "\n")
}

func buildPromptMessages(systemPrompt, message string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: systemPrompt},
		{Role: domain.RoleUser, Content: message},
	}
}

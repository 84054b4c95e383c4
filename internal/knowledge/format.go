package knowledge

import (
	"fmt"
	"strings"

	"consult-agent/internal/domain"
)

// Format renders the record into the Markdown-like block appended to the system
// prompt. Section order and literals are fixed; the output depends only on rec.
func Format(rec domain.KnowledgeRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s — %s\n\n", rec.Name, rec.Role)
	fmt.Fprintf(&b, "## About\n%s\n\n", rec.About)

	b.WriteString("## Services and pricing\n\n")
	for _, s := range rec.Services {
		writeService(&b, s)
	}

	b.WriteString("## How we work\n")
	for i, step := range rec.Process {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	b.WriteString("\n## Contacts\n")
	fmt.Fprintf(&b, "- Email: %s\n", rec.Contacts.Email)
	fmt.Fprintf(&b, "- Telegram: %s\n", rec.Contacts.Telegram)

	b.WriteString("\n## FAQ\n")
	for _, f := range rec.FAQ {
		fmt.Fprintf(&b, "**%s**\n%s\n\n", f.Question, f.Answer)
	}

	return b.String()
}

func writeService(b *strings.Builder, s domain.Service) {
	fmt.Fprintf(b, "### %s\n", s.Category)
	if s.Description != "" {
		fmt.Fprintf(b, "%s\n", s.Description)
	}
	if s.Price != "" {
		fmt.Fprintf(b, "Price: %s\n", s.Price)
	}
	if s.Duration != "" {
		fmt.Fprintf(b, "Duration: %s\n", s.Duration)
	}
	for _, item := range s.Items {
		fmt.Fprintf(b, "- %s — %s\n", item.Name, item.Price)
	}
	b.WriteString("\n")
}

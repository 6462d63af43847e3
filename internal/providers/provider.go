package providers

import (
	"context"
	"strings"
)

// Request is the prompt pair submitted to a backend.
type Request struct {
	System string
	User   string
}

// Generator is the generation-backend abstraction. Implementations return
// the raw message text or a backend error; they never retry beyond their
// own configured policy.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// SanitizeMessage strips decoration models sometimes wrap around the commit
// message: a fenced code block, or matching single/double quotes.
func SanitizeMessage(message string) string {
	text := strings.TrimSpace(message)
	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) >= 2 {
			text = strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
		}
	}
	if len(text) > 1 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	if len(text) > 1 && strings.HasPrefix(text, "'") && strings.HasSuffix(text, "'") {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}

// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

// LocalProvider is the rule-based fallback used when no API key is
// configured. It nudges the user toward settings while keeping the static
// analysis path usable.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

var localDebugKeywords = []string{"debug", "bug", "fix", "error", "fail"}

func (l *LocalProvider) Chat(ctx context.Context, system string, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	prompt := strings.ToLower(messages[len(messages)-1].Content)
	for _, kw := range localDebugKeywords {
		if strings.Contains(prompt, kw) {
			return "I can see you want to debug some RTL. To get full AI-powered analysis, " +
				"please add your OpenAI or Anthropic API key in Settings.\n\n" +
				"Without an API key I can still run static analysis - try asking me to " +
				"debug a specific file and I'll do rule-based detection.", nil
		}
	}
	return "I'm FABB, your RTL debugging assistant! To unlock full conversational AI, " +
		"add your API key in Settings.\n\n" +
		"You can still use me to index files and run static analysis without a key.", nil
}

func (l *LocalProvider) Name() string {
	return "local"
}

// File path: internal/llm/llm.go
package llm

import (
	"os"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/shahran-n/Bug-Buster/internal/common"
	"github.com/shahran-n/Bug-Buster/internal/llm/providers"
)

// Settings selects the chat backend. Empty fields fall back to
// environment variables and finally the rule-based local provider.
type Settings struct {
	Provider string
	APIKey   string
	Model    string
}

// NewProvider resolves the configured backend. With no usable API key
// the local provider answers instead of failing, so the assistant stays
// usable for structural analysis without credentials.
func NewProvider(settings Settings) providers.Provider {
	logger := common.Logger()
	name := strings.ToLower(strings.TrimSpace(settings.Provider))
	apiKey := strings.TrimSpace(settings.APIKey)

	if name == "" || name == "auto" {
		switch {
		case apiKey != "":
			name = "openai"
		case os.Getenv("ANTHROPIC_API_KEY") != "":
			name = "anthropic"
		case os.Getenv("OPENAI_API_KEY") != "":
			name = "openai"
		default:
			name = "local"
		}
	}

	switch name {
	case "anthropic":
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			logger.Warn("llm: anthropic selected without an API key, using local provider")
			return providers.NewLocalProvider()
		}
		return providers.NewAnthropicProvider(apiKey, settings.Model)
	case "openai":
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			logger.Warn("llm: openai selected without an API key, using local provider")
			return providers.NewLocalProvider()
		}
		client := openai.NewClient(option.WithAPIKey(apiKey))
		return providers.NewOpenAIProvider(client, settings.Model)
	case "local":
		return providers.NewLocalProvider()
	default:
		logger.Warn("llm: unknown provider, using local provider", "provider", name)
		return providers.NewLocalProvider()
	}
}

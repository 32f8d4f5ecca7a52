// File path: internal/agent/graph.go
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langgraphgo/graph"

	"github.com/shahran-n/Bug-Buster/internal/common"
	"github.com/shahran-n/Bug-Buster/internal/llm/providers"
)

// ContextFunc assembles the analysis context for a user prompt. The
// returned text is injected ahead of the conversation as system content.
type ContextFunc func(ctx context.Context, prompt string) (string, error)

// Agent runs each chat turn through a two-node message graph: gather the
// file and analysis context, then produce the reply.
type Agent struct {
	provider     providers.Provider
	buildContext ContextFunc
	systemPrompt string
	runnable     *graph.Runnable
}

func New(provider providers.Provider, buildContext ContextFunc, systemPrompt string) (*Agent, error) {
	a := &Agent{
		provider:     provider,
		buildContext: buildContext,
		systemPrompt: systemPrompt,
	}

	g := graph.NewMessageGraph()
	g.AddNode("gather_context", a.gatherContext)
	g.AddNode("respond", a.respond)
	g.AddEdge("gather_context", "respond")
	g.AddEdge("respond", graph.END)
	g.SetEntryPoint("gather_context")

	runnable, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile agent graph: %w", err)
	}
	a.runnable = runnable
	return a, nil
}

// Ask runs one turn. History is replayed so the model keeps the thread.
func (a *Agent) Ask(ctx context.Context, history []providers.Message, prompt string) (string, error) {
	return a.AskWithContext(ctx, history, prompt, "")
}

// AskWithContext runs one turn with pre-assembled context, skipping the
// gather stage's own lookup. Callers that already loaded file context
// use this to avoid reading the files twice.
func (a *Agent) AskWithContext(ctx context.Context, history []providers.Message, prompt, contextText string) (string, error) {
	state := make([]llms.MessageContent, 0, len(history)+3)
	state = append(state, llms.TextParts(llms.ChatMessageTypeSystem, a.systemPrompt))
	if contextText != "" {
		state = append(state, llms.TextParts(llms.ChatMessageTypeSystem, contextText))
	}
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		state = append(state, llms.TextParts(role, msg.Content))
	}
	state = append(state, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	result, err := a.runnable.Invoke(ctx, state)
	if err != nil {
		return "", err
	}
	if len(result) == 0 {
		return "", fmt.Errorf("agent graph returned no messages")
	}
	final := result[len(result)-1]
	if final.Role != llms.ChatMessageTypeAI {
		return "", fmt.Errorf("agent graph ended on %s message", final.Role)
	}
	return messageText(final), nil
}

func (a *Agent) gatherContext(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
	if a.buildContext == nil || len(state) == 0 {
		return state, nil
	}
	prompt := messageText(state[len(state)-1])
	contextText, err := a.buildContext(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("gather context: %w", err)
	}
	if contextText == "" {
		return state, nil
	}
	common.Logger().Debug("agent: context assembled", "chars", len(contextText))
	// Context lands right after the base system prompt so the
	// conversation history keeps its original order.
	augmented := make([]llms.MessageContent, 0, len(state)+1)
	augmented = append(augmented, state[0])
	augmented = append(augmented, llms.TextParts(llms.ChatMessageTypeSystem, contextText))
	augmented = append(augmented, state[1:]...)
	return augmented, nil
}

func (a *Agent) respond(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
	var system []string
	messages := make([]providers.Message, 0, len(state))
	for _, msg := range state {
		switch msg.Role {
		case llms.ChatMessageTypeSystem:
			system = append(system, messageText(msg))
		case llms.ChatMessageTypeAI:
			messages = append(messages, providers.Message{Role: "assistant", Content: messageText(msg)})
		default:
			messages = append(messages, providers.Message{Role: "user", Content: messageText(msg)})
		}
	}
	reply, err := a.provider.Chat(ctx, strings.Join(system, "\n\n"), messages)
	if err != nil {
		return nil, err
	}
	return append(state, llms.TextParts(llms.ChatMessageTypeAI, reply)), nil
}

func messageText(msg llms.MessageContent) string {
	var parts []string
	for _, part := range msg.Parts {
		if text, ok := part.(llms.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

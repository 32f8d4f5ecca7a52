// File path: internal/agent/graph_test.go
package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/shahran-n/Bug-Buster/internal/llm/providers"
)

func TestAskRunsGatherThenRespond(t *testing.T) {
	var seenPrompt string
	buildContext := func(ctx context.Context, prompt string) (string, error) {
		seenPrompt = prompt
		return "Context: counter.v has 2 modules", nil
	}

	a, err := New(providers.NewLocalProvider(), buildContext, "You are an RTL debugging assistant.")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	reply, err := a.Ask(context.Background(), nil, "help me debug counter.v")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if seenPrompt != "help me debug counter.v" {
		t.Fatalf("context built for %q", seenPrompt)
	}
	if !strings.Contains(reply, "static analysis") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestAskKeepsHistoryOrder(t *testing.T) {
	a, err := New(providers.NewLocalProvider(), nil, "system")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	history := []providers.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}
	reply, err := a.Ask(context.Background(), history, "what can you do")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply == "" {
		t.Fatal("empty reply")
	}
}

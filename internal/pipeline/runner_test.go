// File path: internal/pipeline/runner_test.go
package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/shahran-n/Bug-Buster/internal/llm/providers"
)

type stubChatter struct {
	reply       string
	prompt      string
	contextText string
	history     []providers.Message
}

func (s *stubChatter) AskWithContext(ctx context.Context, history []providers.Message, prompt, contextText string) (string, error) {
	s.history = history
	s.prompt = prompt
	s.contextText = contextText
	return s.reply, nil
}

func TestRunAugmentsPromptWithFileList(t *testing.T) {
	index := indexedFolder(t)
	stub := &stubChatter{reply: "Looks fine to me."}
	runner := NewRunner(index, stub)

	resp, err := runner.Run(context.Background(), "debug counter.v", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(stub.prompt, "[Indexed project files:") {
		t.Fatalf("prompt missing file list: %q", stub.prompt)
	}
	if !strings.Contains(stub.prompt, "counter.v") {
		t.Fatalf("prompt missing indexed name: %q", stub.prompt)
	}
	if !strings.HasPrefix(stub.contextText, "--- LOADED FILE CONTEXT ---") {
		t.Fatalf("context missing wrapper: %q", stub.contextText)
	}
	if resp.PlainText != "Looks fine to me." {
		t.Fatalf("PlainText = %q", resp.PlainText)
	}
	if resp.Summary != "" {
		t.Fatalf("Summary = %q, want empty", resp.Summary)
	}
	if len(resp.FilesUsed) != 1 || resp.FilesUsed[0] != "counter.v" {
		t.Fatalf("FilesUsed = %v", resp.FilesUsed)
	}
}

func TestRunParsesBugReports(t *testing.T) {
	index := indexedFolder(t)
	stub := &stubChatter{reply: "Here is what I found.\n\n" +
		"<bug>\n<label>Reset polarity flipped</label>\n<severity>high</severity>\n" +
		"<signal>rst</signal>\n<description>Active-high reset sampled on negedge.</description>\n" +
		"<patch_original>always @(negedge rst)</patch_original>\n" +
		"<patch_fixed>always @(posedge rst)</patch_fixed>\n</bug>"}
	runner := NewRunner(index, stub)

	resp, err := runner.Run(context.Background(), "debug counter.v", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(resp.BugReports) != 1 {
		t.Fatalf("got %d bug reports, want 1", len(resp.BugReports))
	}
	report := resp.BugReports[0]
	if report.Label != "Reset polarity flipped" || report.Severity != "high" || report.Signal != "rst" {
		t.Fatalf("report = %+v", report)
	}
	if report.Patch.Fixed != "always @(posedge rst)" {
		t.Fatalf("patch = %+v", report.Patch)
	}
	if resp.Summary != "⚠️ Found 1 issue(s)." {
		t.Fatalf("Summary = %q", resp.Summary)
	}
	if strings.Contains(resp.PlainText, "<bug>") {
		t.Fatalf("plain text still has bug block: %q", resp.PlainText)
	}
}

func TestRunPassesHistoryThrough(t *testing.T) {
	index := indexedFolder(t)
	stub := &stubChatter{reply: "ok"}
	runner := NewRunner(index, stub)
	history := []providers.Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	if _, err := runner.Run(context.Background(), "hello", history); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(stub.history) != 2 || stub.history[1].Content != "earlier answer" {
		t.Fatalf("history = %v", stub.history)
	}
}

func TestParseBugBlocksDefaults(t *testing.T) {
	plain, reports := ParseBugBlocks("intro <bug><description>something odd</description></bug> outro")
	if plain != "intro  outro" {
		t.Fatalf("plain = %q", plain)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports", len(reports))
	}
	if reports[0].Label != "Bug Detected" || reports[0].Severity != "medium" || reports[0].Confidence != "high" {
		t.Fatalf("defaults = %+v", reports[0])
	}
	if reports[0].Explanation != "something odd" {
		t.Fatalf("explanation = %q", reports[0].Explanation)
	}
}

func TestParseBugBlocksMultiple(t *testing.T) {
	text := "<bug><label>A</label></bug>\nmiddle\n<bug><label>B</label></bug>"
	plain, reports := ParseBugBlocks(text)
	if len(reports) != 2 || reports[0].Label != "A" || reports[1].Label != "B" {
		t.Fatalf("reports = %+v", reports)
	}
	if plain != "middle" {
		t.Fatalf("plain = %q", plain)
	}
}

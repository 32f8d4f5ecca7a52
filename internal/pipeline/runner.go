// File path: internal/pipeline/runner.go
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/shahran-n/Bug-Buster/internal/common"
	"github.com/shahran-n/Bug-Buster/internal/fileindex"
	"github.com/shahran-n/Bug-Buster/internal/llm/providers"
)

// SystemPrompt frames the assistant for the conversational agent. Replies
// may embed <bug> blocks, which the runner parses into structured reports.
const SystemPrompt = `You are FABB (Full-Auto Bug Buster), an expert RTL/Verilog verification engineer and AI coding assistant built into a debugging tool.

You have access to the user's project folder which has been indexed. File contents will be provided to you when relevant.

You can do ANYTHING the user asks:
- Debug and explain Verilog/SystemVerilog bugs in detail
- Suggest and write synthesizable RTL fixes
- Answer follow-up questions about a previous bug or fix
- Explain RTL concepts (FSMs, timing, resets, handshakes, etc.)
- Write new Verilog modules from scratch
- Review code for best practices
- Compare two implementations
- Answer general hardware/HDL questions
- Have a normal conversation

When you detect bugs or suggest fixes, structure your response using these XML tags so the UI can render them nicely:

<bug>
  <label>Short bug title</label>
  <severity>high|medium|low</severity>
  <signal>signal_name (if applicable)</signal>
  <cycle>cycle number (if applicable)</cycle>
  <line>line number (if applicable)</line>
  <description>Plain English explanation of the bug</description>
  <root_cause>The specific technical root cause</root_cause>
  <patch_original>the exact buggy line(s) from the RTL</patch_original>
  <patch_fixed>the corrected line(s)</patch_fixed>
  <patch_explanation>Why this fix works</patch_explanation>
</bug>

You can include multiple <bug> blocks. Outside of bug blocks, respond normally in plain text - explain your reasoning, answer questions, write code, etc.

If the user asks something not related to RTL at all, just answer helpfully as a general assistant. You are not limited to only RTL topics.`

// Response is the structured result of one conversational turn.
type Response struct {
	Prompt     string      `json:"prompt"`
	Status     string      `json:"status"`
	Messages   []string    `json:"messages"`
	BugReports []BugReport `json:"bug_reports"`
	FilesUsed  []string    `json:"files_used"`
	PlainText  string      `json:"plain_text"`
	Summary    string      `json:"summary"`
}

// Chatter is the agent surface the runner drives. The compiled agent
// graph satisfies it.
type Chatter interface {
	AskWithContext(ctx context.Context, history []providers.Message, prompt, contextText string) (string, error)
}

// Runner orchestrates one conversational turn: load relevant file
// context, hand the conversation to the agent, and parse structured bug
// reports out of the reply.
type Runner struct {
	index   *fileindex.Index
	builder *Builder
	agent   Chatter
}

func NewRunner(index *fileindex.Index, agent Chatter) *Runner {
	return &Runner{
		index:   index,
		builder: NewBuilder(index),
		agent:   agent,
	}
}

// Run executes one turn. History holds prior turns in order.
func (r *Runner) Run(ctx context.Context, prompt string, history []providers.Message) (*Response, error) {
	logger := common.Logger()
	response := &Response{
		Prompt:     prompt,
		Status:     "ok",
		Messages:   []string{},
		BugReports: []BugReport{},
		FilesUsed:  []string{},
	}

	loaded := r.builder.Build(prompt)
	response.FilesUsed = loaded.FilesUsed
	response.Messages = loaded.Messages

	// Tell the agent what is indexed so it can ask for files by name.
	augmented := prompt
	if all := r.index.All(); len(all) > 0 {
		names := make([]string, 0, len(all))
		for _, f := range all {
			names = append(names, f.Filename)
		}
		augmented += fmt.Sprintf("\n\n[Indexed project files: %s]", strings.Join(names, ", "))
	}

	contextText := loaded.Context
	if contextText != "" {
		contextText = "--- LOADED FILE CONTEXT ---\n" + contextText + "\n--- END FILE CONTEXT ---"
	}

	raw, err := r.agent.AskWithContext(ctx, history, augmented, contextText)
	if err != nil {
		logger.Error("pipeline: agent turn failed", "error", err)
		return nil, err
	}

	plain, reports := ParseBugBlocks(raw)
	response.PlainText = plain
	response.BugReports = reports
	if len(reports) > 0 {
		response.Summary = fmt.Sprintf("⚠️ Found %d issue(s).", len(reports))
	}
	logger.Info("pipeline: turn complete",
		"files_used", len(response.FilesUsed), "bug_reports", len(reports))
	return response, nil
}

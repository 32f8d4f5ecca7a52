// File path: internal/pipeline/context.go
package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/shahran-n/Bug-Buster/internal/bugs"
	"github.com/shahran-n/Bug-Buster/internal/common"
	"github.com/shahran-n/Bug-Buster/internal/fileindex"
	"github.com/shahran-n/Bug-Buster/internal/findings"
	"github.com/shahran-n/Bug-Buster/internal/rtl"
	"github.com/shahran-n/Bug-Buster/internal/simlog"
	"github.com/shahran-n/Bug-Buster/internal/vcd"
)

var (
	latestKeywords = []string{"latest", "last", "recent", "newest", "current"}
	allKeywords    = []string{"all", "every", "each"}
	debugKeywords  = []string{"debug", "bug", "fix", "error", "fail", "check", "analyze",
		"analyse", "find", "issue", "problem", "wrong", "broken"}
)

const sourcePreviewLimit = 3000

// Loaded is the assembled per-prompt file context. Files that failed to
// read contribute a diagnostic message instead of aborting the batch.
type Loaded struct {
	Context    string
	FilesUsed  []string
	Messages   []string
	Classified []bugs.Classified
}

// Builder selects and loads the files a prompt refers to, runs the
// structural analyzers over them, and renders the context blocks handed
// to the conversational agent.
type Builder struct {
	index *fileindex.Index
}

func NewBuilder(index *fileindex.Index) *Builder {
	return &Builder{index: index}
}

// Build resolves file mentions and intent keywords in the prompt and
// assembles the context payload.
func (b *Builder) Build(prompt string) Loaded {
	promptLower := strings.ToLower(prompt)
	loaded := Loaded{
		FilesUsed: []string{},
		Messages:  []string{},
	}

	wantsLatest := containsAny(promptLower, latestKeywords)
	wantsAll := containsAny(promptLower, allKeywords)
	wantsDebug := containsAny(promptLower, debugKeywords)

	matched := b.index.Resolve(prompt)
	var source, waveform, logs []*fileindex.Entry
	for _, m := range matched {
		switch m.Type {
		case fileindex.TypeVerilog, fileindex.TypeSystemVerilog:
			source = append(source, m)
		case fileindex.TypeWaveform:
			waveform = append(waveform, m)
		case fileindex.TypeLog:
			logs = append(logs, m)
		}
	}

	var toLoad []*fileindex.Entry
	if wantsAll && wantsDebug {
		toLoad = append(toLoad, b.index.ByType(fileindex.TypeVerilog)...)
		toLoad = append(toLoad, b.index.ByType(fileindex.TypeSystemVerilog)...)
	} else if len(source) > 0 {
		toLoad = append(toLoad, source[0])
	}

	if len(waveform) > 0 {
		toLoad = append(toLoad, waveform[0])
	} else if wantsLatest || (wantsDebug && len(source) == 0) {
		if latest := b.index.Latest(fileindex.TypeWaveform); latest != nil {
			toLoad = append(toLoad, latest)
		}
	}

	if len(logs) > 0 {
		toLoad = append(toLoad, logs[0])
	} else if wantsLatest || containsAny(promptLower, []string{"log", "simulation", "failed"}) {
		if latest := b.index.Latest(fileindex.TypeLog); latest != nil {
			toLoad = append(toLoad, latest)
		}
	}

	var blocks []string
	var sourceAnalysis *rtl.Analysis
	var waveformFindings, logFindings []findings.Finding

	for _, entry := range toLoad {
		content, err := os.ReadFile(entry.Path)
		if err != nil {
			loaded.Messages = append(loaded.Messages, fmt.Sprintf("⚠️ Could not load %s: %v", entry.Filename, err))
			common.Logger().Warn("pipeline: file load failed", "file", entry.Filename, "error", err)
			continue
		}
		loaded.FilesUsed = append(loaded.FilesUsed, entry.Filename)
		loaded.Messages = append(loaded.Messages, "📄 Loaded: "+entry.Filename)

		switch entry.Type {
		case fileindex.TypeVerilog, fileindex.TypeSystemVerilog:
			analysis, err := rtl.Analyze(entry.Path)
			if err != nil {
				loaded.Messages = append(loaded.Messages, fmt.Sprintf("⚠️ Could not analyze %s: %v", entry.Filename, err))
				continue
			}
			blocks = append(blocks, sourceBlock(entry.Filename, string(content), analysis))
			if sourceAnalysis == nil {
				sourceAnalysis = analysis
			} else {
				sourceAnalysis.SuspiciousLines = append(sourceAnalysis.SuspiciousLines, analysis.SuspiciousLines...)
			}
		case fileindex.TypeWaveform:
			model, err := vcd.Parse(entry.Path)
			if err != nil {
				loaded.Messages = append(loaded.Messages, fmt.Sprintf("⚠️ Could not analyze %s: %v", entry.Filename, err))
				continue
			}
			issues := vcd.FindMismatches(model, nil)
			blocks = append(blocks, waveformBlock(entry.Filename, model, issues))
			waveformFindings = append(waveformFindings, issues...)
		case fileindex.TypeLog:
			analysis, err := simlog.Analyze(entry.Path)
			if err != nil {
				loaded.Messages = append(loaded.Messages, fmt.Sprintf("⚠️ Could not analyze %s: %v", entry.Filename, err))
				continue
			}
			blocks = append(blocks, logBlock(entry.Filename, analysis))
			logFindings = append(logFindings, analysis.Failures...)
			logFindings = append(logFindings, analysis.Warnings...)
		}
	}

	loaded.Classified = bugs.Classify(sourceAnalysis, waveformFindings, logFindings)
	if len(loaded.Classified) > 0 {
		blocks = append(blocks, "[Heuristic classification: "+bugs.Summarize(loaded.Classified)+"]")
	}
	loaded.Context = strings.Join(blocks, "\n\n")
	return loaded
}

func sourceBlock(filename, content string, analysis *rtl.Analysis) string {
	preview := content
	if runes := []rune(content); len(runes) > sourcePreviewLimit {
		preview = string(runes[:sourcePreviewLimit])
	}
	modules := "none"
	if len(analysis.Modules) > 0 {
		modules = strings.Join(analysis.Modules, ", ")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n%s\n\n", filename, preview)
	fmt.Fprintf(&sb, "[Static analysis: Modules: %s | Signals: %d | Always blocks: %d | Static issues found: %d]\n",
		modules, len(analysis.Signals), len(analysis.AlwaysBlocks), len(analysis.SuspiciousLines))
	if len(analysis.SuspiciousLines) > 0 {
		var lines []string
		for _, suspicious := range analysis.SuspiciousLines {
			lines = append(lines, fmt.Sprintf("line %d: %s (%s)", suspicious.Line, suspicious.Issue, suspicious.Text))
		}
		fmt.Fprintf(&sb, "[Suspicious lines: %s]\n", strings.Join(lines, "; "))
	}
	return sb.String()
}

func waveformBlock(filename string, model *vcd.Model, issues []findings.Finding) string {
	var names []string
	for _, id := range model.SignalIDs() {
		names = append(names, model.Signals[id].Name)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s (VCD) ===\n", filename)
	fmt.Fprintf(&sb, "Signals: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&sb, "Max time: %d %s\n", model.MaxTime, model.Timescale)
	fmt.Fprintf(&sb, "Waveform anomalies: %d\n", len(issues))
	if len(issues) > 0 {
		shown := issues
		if len(shown) > 5 {
			shown = shown[:5]
		}
		var descs []string
		for _, issue := range shown {
			descs = append(descs, issue.Description)
		}
		fmt.Fprintf(&sb, "Issues: %s\n", strings.Join(descs, "; "))
	}
	return sb.String()
}

func logBlock(filename string, analysis *simlog.Analysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s (Log) ===\n", filename)
	fmt.Fprintf(&sb, "Pass: %d | Fail: %d\n", analysis.PassCount, analysis.FailCount)
	sb.WriteString("Failures:\n")
	shown := analysis.Failures
	if len(shown) > 10 {
		shown = shown[:10]
	}
	var texts []string
	for _, failure := range shown {
		texts = append(texts, failure.Text)
	}
	sb.WriteString(strings.Join(texts, "\n"))
	return sb.String()
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// File path: internal/rtl/analyzer.go
package rtl

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shahran-n/Bug-Buster/internal/common"
)

// Analysis is the structural record extracted from one Verilog or
// SystemVerilog source file.
type Analysis struct {
	Filepath        string           `json:"filepath"`
	Filename        string           `json:"filename"`
	Modules         []string         `json:"modules"`
	Signals         []Signal         `json:"signals"`
	FSMStates       []FSMState       `json:"fsm_states"`
	AlwaysBlocks    []AlwaysBlock    `json:"always_blocks"`
	ArithmeticOps   []string         `json:"arithmetic_ops"`
	ClockSignals    []string         `json:"clock_signals"`
	ResetSignals    []string         `json:"reset_signals"`
	SuspiciousLines []SuspiciousLine `json:"suspicious_lines"`
}

// Signal is a declared port or net with its direction or storage class.
type Signal struct {
	Direction string `json:"direction"`
	Name      string `json:"name"`
}

// FSMState is a named parameter constant that looks like a state encoding.
type FSMState struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AlwaysBlock is one procedural block with its sensitivity list and a
// bounded preview of the body.
type AlwaysBlock struct {
	Sensitivity string `json:"sensitivity"`
	Kind        string `json:"type"`
	BodyPreview string `json:"body_preview"`
}

// SuspiciousLine flags a single source line matching a known bug pattern.
type SuspiciousLine struct {
	Line  int    `json:"line"`
	Text  string `json:"text"`
	Issue string `json:"issue"`
}

const bodyPreviewLimit = 300

var (
	lineCommentRe  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	moduleRe       = regexp.MustCompile(`\bmodule\s+(\w+)\s*[#(]?`)
	portRe         = regexp.MustCompile(`\b(input|output|inout)\s+(?:wire|reg)?\s*(?:\[[\d\s:]+\])?\s*(\w+)`)
	netRe          = regexp.MustCompile(`\b(wire|reg)\s+(?:\[[\d\s:]+\])?\s*(\w+)`)
	paramRe        = regexp.MustCompile(`\b(?:parameter|localparam)\s+(\w+)\s*=\s*(\d+|'[bhdBHD][0-9a-fA-F_xXzZ]+)`)
	alwaysHeadRe   = regexp.MustCompile(`always\s*@\s*\(([^)]*)\)`)
	endmoduleRe    = regexp.MustCompile(`\bendmodule\b`)

	dualEdgeRe = regexp.MustCompile(`always\s*@\s*\(\s*(?:posedge|negedge)\s+\w+\s*,?\s*(?:posedge|negedge)\s+\w+`)
	bareSensRe = regexp.MustCompile(`always\s*@\s*\(\s*\w+\s*\)`)
)

// skipIdentifiers are language keywords the declaration patterns can match
// by accident.
var skipIdentifiers = map[string]struct{}{
	"begin": {}, "end": {}, "if": {}, "else": {}, "case": {}, "endcase": {},
}

// fsmNameHints mark parameter names that look like state encodings.
var fsmNameHints = []string{
	"STATE", "ST_", "_ST", "IDLE", "INIT", "WAIT", "BUSY", "DONE",
	"RUN", "FETCH", "EXEC", "DECODE",
}

var arithmeticOps = []struct {
	token string
	name  string
}{
	{"+", "addition"},
	{"-", "subtraction"},
	{"*", "multiplication"},
	{"/", "division"},
	{"%", "modulo"},
	{"<<", "left_shift"},
	{">>", "right_shift"},
}

var clockNameHints = []string{"clk", "clock", "ck"}
var resetNameHints = []string{"rst", "reset", "rstn", "nrst"}

// Analyze extracts the structural record for one source file. A missing file
// yields an empty analysis rather than an error; any other read failure is
// returned to the caller as a per-file diagnostic.
func Analyze(path string) (*Analysis, error) {
	result := &Analysis{
		Filepath: path,
		Filename: filepath.Base(path),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			common.Logger().Debug("rtl: source file missing", "path", path)
			return result, nil
		}
		return result, fmt.Errorf("read source %s: %w", path, err)
	}
	content := string(data)
	AnalyzeText(content, result)
	return result, nil
}

// AnalyzeText fills the analysis from raw source text. Comments are stripped
// before structural extraction; the suspicious-line pass runs on the raw
// lines so reported line numbers match the file.
func AnalyzeText(content string, result *Analysis) {
	clean := lineCommentRe.ReplaceAllString(content, "")
	clean = blockCommentRe.ReplaceAllString(clean, "")

	for _, m := range moduleRe.FindAllStringSubmatch(clean, -1) {
		result.Modules = append(result.Modules, m[1])
	}

	for _, re := range []*regexp.Regexp{portRe, netRe} {
		for _, m := range re.FindAllStringSubmatch(clean, -1) {
			name := m[2]
			if _, skip := skipIdentifiers[name]; skip {
				continue
			}
			result.Signals = append(result.Signals, Signal{Direction: m[1], Name: name})
		}
	}

	for _, m := range paramRe.FindAllStringSubmatch(clean, -1) {
		upper := strings.ToUpper(m[1])
		for _, hint := range fsmNameHints {
			if strings.Contains(upper, hint) {
				result.FSMStates = append(result.FSMStates, FSMState{Name: m[1], Value: m[2]})
				break
			}
		}
	}

	result.AlwaysBlocks = extractAlwaysBlocks(clean)

	for _, op := range arithmeticOps {
		if strings.Contains(clean, op.token) {
			result.ArithmeticOps = append(result.ArithmeticOps, op.name)
		}
	}

	for _, sig := range result.Signals {
		lower := strings.ToLower(sig.Name)
		for _, hint := range clockNameHints {
			if strings.Contains(lower, hint) {
				result.ClockSignals = append(result.ClockSignals, sig.Name)
				break
			}
		}
		for _, hint := range resetNameHints {
			if strings.Contains(lower, hint) {
				result.ResetSignals = append(result.ResetSignals, sig.Name)
				break
			}
		}
	}

	result.SuspiciousLines = findSuspiciousLines(content)
}

// extractAlwaysBlocks pairs each sensitivity list with the body text running
// up to the next always block or endmodule keyword. A trailing block with
// neither boundary after it is dropped, matching the first-match scan the
// rest of the extraction uses.
func extractAlwaysBlocks(clean string) []AlwaysBlock {
	heads := alwaysHeadRe.FindAllStringSubmatchIndex(clean, -1)
	var blocks []AlwaysBlock
	for i, head := range heads {
		sensitivity := strings.TrimSpace(clean[head[2]:head[3]])
		bodyStart := head[1]
		bodyEnd := -1
		if i+1 < len(heads) {
			bodyEnd = heads[i+1][0]
		}
		if loc := endmoduleRe.FindStringIndex(clean[bodyStart:]); loc != nil {
			end := bodyStart + loc[0]
			if bodyEnd == -1 || end < bodyEnd {
				bodyEnd = end
			}
		}
		if bodyEnd == -1 {
			continue
		}
		body := strings.TrimSpace(clean[bodyStart:bodyEnd])
		if runes := []rune(body); len(runes) > bodyPreviewLimit {
			body = string(runes[:bodyPreviewLimit])
		}
		kind := "combinational"
		if strings.Contains(sensitivity, "posedge") || strings.Contains(sensitivity, "negedge") {
			kind = "sequential"
		}
		blocks = append(blocks, AlwaysBlock{Sensitivity: sensitivity, Kind: kind, BodyPreview: body})
	}
	return blocks
}

// findSuspiciousLines runs the per-line bug heuristics over the raw source.
func findSuspiciousLines(content string) []SuspiciousLine {
	var issues []SuspiciousLine
	for i, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		lineNum := i + 1

		if dualEdgeRe.MatchString(stripped) {
			issues = append(issues, SuspiciousLine{
				Line:  lineNum,
				Text:  stripped,
				Issue: "Dual-edge sensitivity - may cause double-triggering",
			})
		}

		if bareSensRe.MatchString(stripped) &&
			!strings.Contains(stripped, "posedge") && !strings.Contains(stripped, "negedge") {
			issues = append(issues, SuspiciousLine{
				Line:  lineNum,
				Text:  stripped,
				Issue: "Missing posedge/negedge in sensitivity list",
			})
		}

		lower := strings.ToLower(stripped)
		if strings.Contains(lower, "negedge") && strings.Contains(lower, "rst") {
			// Look at the three characters right before the reset name; an
			// active-low reset is expected to carry an n there (rstn, nrst).
			before := lower[:strings.Index(lower, "rst")]
			if len(before) > 3 {
				before = before[len(before)-3:]
			}
			if !strings.Contains(before, "n") {
				issues = append(issues, SuspiciousLine{
					Line:  lineNum,
					Text:  stripped,
					Issue: "Possible reset polarity mismatch (negedge with active-high reset name)",
				})
			}
		}
	}
	return issues
}

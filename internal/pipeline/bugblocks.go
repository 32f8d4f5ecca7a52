// File path: internal/pipeline/bugblocks.go
package pipeline

import (
	"regexp"
	"strings"
)

// Patch carries the suggested RTL edit for one reported bug.
type Patch struct {
	Original    string `json:"original"`
	Fixed       string `json:"fixed"`
	Explanation string `json:"explanation"`
}

// BugReport is one structured bug extracted from the agent's reply.
type BugReport struct {
	Label       string `json:"label"`
	Severity    string `json:"severity"`
	Signal      string `json:"signal"`
	Cycle       string `json:"cycle"`
	Line        string `json:"line"`
	Description string `json:"description"`
	RootCause   string `json:"root_cause"`
	Explanation string `json:"llm_explanation"`
	Patch       Patch  `json:"patch"`
	Confidence  string `json:"confidence"`
	Note        string `json:"note"`
}

var (
	bugBlockRe = regexp.MustCompile(`(?s)<bug>(.*?)</bug>`)
	bugTagRes  = map[string]*regexp.Regexp{}
)

func init() {
	for _, tag := range []string{"label", "severity", "signal", "cycle", "line",
		"description", "root_cause", "patch_original", "patch_fixed", "patch_explanation"} {
		bugTagRes[tag] = regexp.MustCompile(`(?s)<` + tag + `>(.*?)</` + tag + `>`)
	}
}

// ParseBugBlocks extracts <bug> blocks from an agent reply. The returned
// plain text has the blocks removed so the caller can render it directly.
func ParseBugBlocks(text string) (string, []BugReport) {
	var reports []BugReport
	for _, block := range bugBlockRe.FindAllStringSubmatch(text, -1) {
		body := block[1]
		tag := func(name string) string {
			if m := bugTagRes[name].FindStringSubmatch(body); m != nil {
				return strings.TrimSpace(m[1])
			}
			return ""
		}
		report := BugReport{
			Label:       tag("label"),
			Severity:    tag("severity"),
			Signal:      tag("signal"),
			Cycle:       tag("cycle"),
			Line:        tag("line"),
			Description: tag("description"),
			RootCause:   tag("root_cause"),
			Explanation: tag("description"),
			Patch: Patch{
				Original:    tag("patch_original"),
				Fixed:       tag("patch_fixed"),
				Explanation: tag("patch_explanation"),
			},
			Confidence: "high",
		}
		if report.Label == "" {
			report.Label = "Bug Detected"
		}
		if report.Severity == "" {
			report.Severity = "medium"
		}
		reports = append(reports, report)
	}
	plain := strings.TrimSpace(bugBlockRe.ReplaceAllString(text, ""))
	return plain, reports
}

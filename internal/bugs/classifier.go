// File path: internal/bugs/classifier.go
package bugs

import (
	"fmt"
	"strings"

	"github.com/shahran-n/Bug-Buster/internal/findings"
	"github.com/shahran-n/Bug-Buster/internal/rtl"
)

// Classified is one finding mapped into the taxonomy.
type Classified struct {
	BugType     string      `json:"bug_type"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	FixHint     string      `json:"fix_hint"`
	SourceIssue interface{} `json:"source_issue"`
	Severity    string      `json:"severity"`
}

// Classify maps raw analyzer findings into bug categories. Waveform and log
// findings are scored by keyword occurrence against every category, ties
// keeping the earlier category in table order; a zero score falls back to
// xz_propagation for xz findings and stuck_signal otherwise. Source
// suspicious lines use the simple textual rule instead of scoring. The
// result is deterministic for identical inputs.
func Classify(source *rtl.Analysis, waveform, log []findings.Finding) []Classified {
	var classified []Classified

	all := make([]findings.Finding, 0, len(waveform)+len(log))
	all = append(all, waveform...)
	all = append(all, log...)

	for _, issue := range all {
		blob := strings.ToLower(issue.Description + " " + issue.Type)
		signal := strings.ToLower(issue.Signal)

		bestID := ""
		bestScore := 0
		for _, pattern := range patternTable {
			score := 0
			for _, kw := range pattern.Keywords {
				if strings.Contains(blob, kw) {
					score++
				}
				if signal != "" && strings.Contains(signal, kw) {
					score++
				}
			}
			if score > bestScore {
				bestScore = score
				bestID = pattern.ID
			}
		}
		if bestID == "" {
			if issue.Type == "xz_propagation" {
				bestID = "xz_propagation"
			} else {
				bestID = "stuck_signal"
			}
		}

		pattern := patternsByID[bestID]
		severity := issue.Severity
		if severity == "" {
			severity = findings.SeverityMedium
		}
		classified = append(classified, Classified{
			BugType:     bestID,
			Label:       pattern.Label,
			Description: pattern.Description,
			FixHint:     pattern.FixHint,
			SourceIssue: issue,
			Severity:    severity,
		})
	}

	if source != nil {
		for _, line := range source.SuspiciousLines {
			text := strings.ToLower(line.Issue)
			bugType := "off_by_one"
			if strings.Contains(text, "reset") {
				bugType = "reset_polarity"
			} else if strings.Contains(text, "edge") {
				bugType = "clock_domain"
			}
			classified = append(classified, Classified{
				BugType:     bugType,
				Label:       "RTL Static Analysis Finding",
				Description: line.Issue,
				FixHint:     "Review the flagged line in the RTL source.",
				SourceIssue: line,
				Severity:    findings.SeverityMedium,
			})
		}
	}

	return classified
}

// Summarize renders a count-by-label summary of classified bugs.
func Summarize(classified []Classified) string {
	if len(classified) == 0 {
		return "No bugs detected."
	}
	counts := make(map[string]int)
	var order []string
	for _, bug := range classified {
		if _, seen := counts[bug.Label]; !seen {
			order = append(order, bug.Label)
		}
		counts[bug.Label]++
	}
	parts := make([]string, 0, len(order))
	for _, label := range order {
		parts = append(parts, fmt.Sprintf("%dx %s", counts[label], label))
	}
	return fmt.Sprintf("Found %d issue(s): %s", len(classified), strings.Join(parts, ", "))
}

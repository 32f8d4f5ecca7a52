// File path: internal/simlog/analyzer.go
package simlog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shahran-n/Bug-Buster/internal/common"
	"github.com/shahran-n/Bug-Buster/internal/findings"
)

// Analysis aggregates failures, warnings and pass counts extracted from one
// simulation log.
type Analysis struct {
	Filepath  string             `json:"filepath"`
	Filename  string             `json:"filename"`
	Failures  []findings.Finding `json:"failures"`
	Warnings  []findings.Finding `json:"warnings"`
	PassCount int                `json:"pass_count"`
	FailCount int                `json:"fail_count"`
}

var (
	failureKeywords = []string{"fail", "error", "assertion", "mismatch", "wrong"}
	passKeywords    = []string{"pass", "ok", "success", "✓", "passed"}

	cycleRe  = regexp.MustCompile(`(?:time|cycle|@)\s*[=:]?\s*(\d+)`)
	signalRe = regexp.MustCompile(`(?:signal|wire|reg|output)\s+["']?(\w+)["']?`)
)

// Analyze scans a simulation log line by line. Failure keywords take
// priority over warnings, warnings over pass counting, so a line matching
// several vocabularies is counted once. A missing file yields an empty
// analysis.
func Analyze(path string) (*Analysis, error) {
	result := &Analysis{
		Filepath: path,
		Filename: filepath.Base(path),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			common.Logger().Debug("simlog: log missing", "path", path)
			return result, nil
		}
		return result, fmt.Errorf("read log %s: %w", path, err)
	}

	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)

		if containsAny(lower, failureKeywords) {
			entry := findings.Finding{
				Type:        "failure",
				LineNum:     i + 1,
				Text:        line,
				Severity:    findings.SeverityHigh,
				Description: describeFailure(lower, line),
			}
			if m := cycleRe.FindStringSubmatch(lower); m != nil {
				if cycle, convErr := strconv.ParseInt(m[1], 10, 64); convErr == nil {
					entry.Cycle = cycle
				}
			}
			if m := signalRe.FindStringSubmatch(lower); m != nil {
				entry.Signal = m[1]
			}
			result.Failures = append(result.Failures, entry)
			result.FailCount++
			continue
		}

		if strings.Contains(lower, "warning") {
			result.Warnings = append(result.Warnings, findings.Finding{
				Type:        "warning",
				LineNum:     i + 1,
				Text:        line,
				Severity:    findings.SeverityLow,
				Description: "Warning: " + line,
			})
			continue
		}

		if containsAny(lower, passKeywords) {
			result.PassCount++
		}
	}
	return result, nil
}

func describeFailure(lower, line string) string {
	switch {
	case strings.Contains(lower, "mismatch"):
		return "Output mismatch detected: " + line
	case strings.Contains(lower, "assertion"):
		return "Assertion failure: " + line
	case strings.Contains(lower, "timeout"):
		return "Simulation timeout: " + line
	default:
		return "Error/failure: " + line
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// File path: internal/findings/findings.go

// Package findings holds the anomaly record shared by the waveform and log
// analyzers and consumed by the bug classifier.
package findings

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Finding is a single detected anomaly or failure, prior to classification.
// Type-specific fields are zero-valued when they do not apply.
type Finding struct {
	Type        string  `json:"type"`
	Signal      string  `json:"signal,omitempty"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Cycles      []int64 `json:"cycles,omitempty"`
	Expected    string  `json:"expected,omitempty"`
	Actual      string  `json:"actual,omitempty"`
	AtTime      int64   `json:"at_time,omitempty"`
	LineNum     int     `json:"line_num,omitempty"`
	Cycle       int64   `json:"cycle,omitempty"`
	Text        string  `json:"text,omitempty"`
}

// File path: internal/vcd/mismatch.go
package vcd

import (
	"fmt"
	"strings"

	"github.com/shahran-n/Bug-Buster/internal/findings"
)

// FindMismatches flags unknown/high-impedance values, stuck signals, and
// deviations from expected final values. Signals are inspected in
// declaration order. The expected map keys on signal name; nil disables the
// final-value comparison.
func FindMismatches(model *Model, expected map[string]string) []findings.Finding {
	var issues []findings.Finding
	for _, id := range model.order {
		sig := model.Signals[id]
		events := model.Timeline[id]
		name := sig.Name

		var xzTimes []int64
		for _, ev := range events {
			lower := strings.ToLower(ev.Value)
			if strings.Contains(lower, "x") || strings.Contains(lower, "z") {
				xzTimes = append(xzTimes, ev.Time)
				if len(xzTimes) == 3 {
					break
				}
			}
		}
		if len(xzTimes) > 0 {
			issues = append(issues, findings.Finding{
				Type:        "xz_propagation",
				Signal:      name,
				Severity:    findings.SeverityHigh,
				Cycles:      xzTimes,
				Description: fmt.Sprintf("Signal '%s' has X/Z values at cycles %v", name, xzTimes),
			})
		}

		if len(events) <= 1 && sig.Kind != "parameter" && sig.Kind != "real" {
			issues = append(issues, findings.Finding{
				Type:        "stuck_signal",
				Signal:      name,
				Severity:    findings.SeverityMedium,
				Description: fmt.Sprintf("Signal '%s' never changes - may be stuck", name),
			})
		}

		if expected != nil {
			if want, ok := expected[name]; ok && len(events) > 0 {
				final := events[len(events)-1]
				if final.Value != want {
					issues = append(issues, findings.Finding{
						Type:        "value_mismatch",
						Signal:      name,
						Severity:    findings.SeverityHigh,
						Expected:    want,
						Actual:      final.Value,
						AtTime:      final.Time,
						Description: fmt.Sprintf("Signal '%s': expected %s, got %s at t=%d", name, want, final.Value, final.Time),
					})
				}
			}
		}
	}
	return issues
}

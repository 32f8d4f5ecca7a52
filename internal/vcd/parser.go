// File path: internal/vcd/parser.go
package vcd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shahran-n/Bug-Buster/internal/common"
)

// Signal is one declared variable from the dump header.
type Signal struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Kind     string `json:"type"`
	Module   string `json:"module"`
	FullName string `json:"full_name"`
}

// Event is a single recorded value change. Values are kept as the raw value
// tokens from the dump: single bits (0, 1, x, z) or multi-bit strings.
type Event struct {
	Time  int64  `json:"time"`
	Value string `json:"value"`
}

// Model is the reconstructed timeline of a waveform dump.
type Model struct {
	Filepath    string             `json:"filepath"`
	Filename    string             `json:"filename"`
	Timescale   string             `json:"timescale"`
	Signals     map[string]*Signal `json:"signals"`
	Timeline    map[string][]Event `json:"timeline"`
	MaxTime     int64              `json:"max_time"`
	SignalNames []string           `json:"signal_names"`

	// order preserves declaration order of signal ids so downstream passes
	// iterate deterministically.
	order []string
}

// SignalIDs returns the signal ids in declaration order.
func (m *Model) SignalIDs() []string {
	return m.order
}

var (
	timescaleRe = regexp.MustCompile(`(?s)\$timescale\s+(.*?)\s*\$end`)
	scopeRe     = regexp.MustCompile(`\$scope\s+\w+\s+(\w+)`)
	varRe       = regexp.MustCompile(`\$var\s+(\w+)\s+(\d+)\s+(\S+)\s+(\S+)(?:\s+\S+)?\s*\$end`)
	scalarRe    = regexp.MustCompile(`^([01xXzZ])(\S+)$`)
	vectorRe    = regexp.MustCompile(`^[bBrR](\S+)\s+(\S+)$`)
)

// Parse reads a waveform dump and reconstructs per-signal timelines. A
// missing or malformed file yields an empty model; unparseable lines are
// skipped and parsing continues.
func Parse(path string) (*Model, error) {
	model := &Model{
		Filepath:  path,
		Filename:  filepath.Base(path),
		Timescale: "1ns",
		Signals:   make(map[string]*Signal),
		Timeline:  make(map[string][]Event),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			common.Logger().Debug("vcd: dump missing", "path", path)
			return model, nil
		}
		return model, fmt.Errorf("read waveform %s: %w", path, err)
	}
	content := string(data)

	if m := timescaleRe.FindStringSubmatch(content); m != nil {
		model.Timescale = strings.TrimSpace(m[1])
	}

	lines := strings.Split(content, "\n")
	parseDeclarations(lines, model)
	parseValueChanges(lines, model)

	for _, id := range model.order {
		model.SignalNames = append(model.SignalNames, model.Signals[id].Name)
	}
	return model, nil
}

// parseDeclarations walks the header, tracking the scope stack so each
// variable is tagged with its dot-joined module path.
func parseDeclarations(lines []string, model *Model) {
	var scopeStack []string
	currentModule := "top"
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.Contains(line, "$scope") {
			if m := scopeRe.FindStringSubmatch(line); m != nil {
				scopeStack = append(scopeStack, m[1])
				currentModule = strings.Join(scopeStack, ".")
			}
		} else if strings.Contains(line, "$upscope") {
			if len(scopeStack) > 0 {
				scopeStack = scopeStack[:len(scopeStack)-1]
			}
			if len(scopeStack) > 0 {
				currentModule = strings.Join(scopeStack, ".")
			} else {
				currentModule = "top"
			}
		}
		if m := varRe.FindStringSubmatch(line); m != nil {
			width, _ := strconv.Atoi(m[2])
			id, name := m[3], m[4]
			fullName := name
			if currentModule != "" {
				fullName = currentModule + "." + name
			}
			if _, seen := model.Signals[id]; !seen {
				model.order = append(model.order, id)
			}
			model.Signals[id] = &Signal{
				ID:       id,
				Name:     name,
				Width:    width,
				Kind:     m[1],
				Module:   currentModule,
				FullName: fullName,
			}
			model.Timeline[id] = nil
		}
	}
}

// parseValueChanges replays the change stream, appending events in document
// order tagged with the running timestamp.
func parseValueChanges(lines []string, model *Model) {
	var currentTime int64
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "$comment") || strings.HasPrefix(line, "$end") {
			continue
		}
		if strings.HasPrefix(line, "#") {
			t, err := strconv.ParseInt(line[1:], 10, 64)
			if err != nil {
				continue
			}
			currentTime = t
			if t > model.MaxTime {
				model.MaxTime = t
			}
			continue
		}
		if m := scalarRe.FindStringSubmatch(line); m != nil {
			if _, known := model.Timeline[m[2]]; known {
				model.Timeline[m[2]] = append(model.Timeline[m[2]], Event{Time: currentTime, Value: m[1]})
			}
			continue
		}
		if m := vectorRe.FindStringSubmatch(line); m != nil {
			if _, known := model.Timeline[m[2]]; known {
				model.Timeline[m[2]] = append(model.Timeline[m[2]], Event{Time: currentTime, Value: m[1]})
			}
		}
	}
}

// SignalAt returns the value of the named signal at or before the given
// time, defaulting to the unknown token when no prior event exists. The
// second return is false when the name is not declared in the model.
func SignalAt(model *Model, name string, time int64) (string, bool) {
	for _, id := range model.order {
		sig := model.Signals[id]
		if sig.Name != name {
			continue
		}
		value := "x"
		for _, ev := range model.Timeline[id] {
			if ev.Time <= time {
				value = ev.Value
			} else {
				break
			}
		}
		return value, true
	}
	return "", false
}

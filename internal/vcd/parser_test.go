// File path: internal/vcd/parser_test.go
package vcd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleDump = `$date today $end
$timescale 1ns $end
$scope module top $end
$var wire 1 ! clk $end
$scope module dut $end
$var reg 8 " count $end
$var wire 1 # valid $end
$upscope $end
$upscope $end
$enddefinitions $end
$dumpvars
0!
b00000000 "
x#
$end
#5
1!
b00000001 "
#10
0!
bxxxxxxxx "
1#
#15
1!
`

func writeDump(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.vcd")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	return path
}

func TestParseSampleDump(t *testing.T) {
	model, err := Parse(writeDump(t, sampleDump))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if model.Timescale != "1ns" {
		t.Errorf("Timescale = %q, want 1ns", model.Timescale)
	}
	if model.MaxTime != 15 {
		t.Errorf("MaxTime = %d, want 15", model.MaxTime)
	}
	if !reflect.DeepEqual(model.SignalNames, []string{"clk", "count", "valid"}) {
		t.Errorf("SignalNames = %v, want [clk count valid]", model.SignalNames)
	}

	clk := model.Signals["!"]
	if clk == nil || clk.Module != "top" || clk.FullName != "top.clk" {
		t.Errorf("clk signal = %+v, want module top", clk)
	}
	count := model.Signals["\""]
	if count == nil || count.Module != "top.dut" || count.Width != 8 || count.Kind != "reg" {
		t.Errorf("count signal = %+v, want top.dut reg width 8", count)
	}

	clkEvents := model.Timeline["!"]
	want := []Event{{0, "0"}, {5, "1"}, {10, "0"}, {15, "1"}}
	if !reflect.DeepEqual(clkEvents, want) {
		t.Errorf("clk timeline = %v, want %v", clkEvents, want)
	}
	countEvents := model.Timeline["\""]
	if len(countEvents) != 3 || countEvents[2].Value != "xxxxxxxx" {
		t.Errorf("count timeline = %v, want vector values with final x run", countEvents)
	}
}

func TestParseMissingOrMalformed(t *testing.T) {
	model, err := Parse(filepath.Join(t.TempDir(), "absent.vcd"))
	if err != nil {
		t.Fatalf("Parse(missing) returned error: %v", err)
	}
	if len(model.Signals) != 0 || model.MaxTime != 0 {
		t.Fatalf("expected empty model, got %+v", model)
	}

	model, err = Parse(writeDump(t, "#notanumber\ngarbage line\n#7\n"))
	if err != nil {
		t.Fatalf("Parse(malformed) returned error: %v", err)
	}
	if model.MaxTime != 7 {
		t.Errorf("MaxTime = %d, want 7 (bad timestamp skipped)", model.MaxTime)
	}
}

func TestSignalAt(t *testing.T) {
	model, err := Parse(writeDump(t, sampleDump))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cases := []struct {
		name  string
		at    int64
		want  string
		found bool
	}{
		{name: "clk", at: 0, want: "0", found: true},
		{name: "clk", at: 7, want: "1", found: true},
		{name: "clk", at: 15, want: "1", found: true},
		{name: "valid", at: 4, want: "x", found: true},
		{name: "nosuch", at: 0, found: false},
	}
	for _, tc := range cases {
		got, ok := SignalAt(model, tc.name, tc.at)
		if ok != tc.found {
			t.Errorf("SignalAt(%s,%d) found = %v, want %v", tc.name, tc.at, ok, tc.found)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("SignalAt(%s,%d) = %q, want %q", tc.name, tc.at, got, tc.want)
		}
	}
}

func TestFindMismatchesXZAndStuck(t *testing.T) {
	model, err := Parse(writeDump(t, sampleDump))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	issues := FindMismatches(model, nil)

	byType := make(map[string][]string)
	for _, issue := range issues {
		byType[issue.Type] = append(byType[issue.Type], issue.Signal)
	}
	// count has an all-x vector value, valid starts at x.
	if got := byType["xz_propagation"]; !reflect.DeepEqual(got, []string{"count", "valid"}) {
		t.Errorf("xz_propagation signals = %v, want [count valid]", got)
	}
	if got := byType["stuck_signal"]; len(got) != 0 {
		t.Errorf("stuck_signal signals = %v, want none", got)
	}
}

func TestFindMismatchesStuckSingleEvent(t *testing.T) {
	dump := "$var wire 1 ! clk $end\n$var parameter 8 p WIDTH $end\n#0\n0!\n"
	model, err := Parse(writeDump(t, dump))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	issues := FindMismatches(model, nil)
	stuck := 0
	for _, issue := range issues {
		if issue.Type == "stuck_signal" {
			stuck++
			if issue.Signal != "clk" {
				t.Errorf("stuck signal = %s, want clk (parameter exempt)", issue.Signal)
			}
		}
	}
	if stuck != 1 {
		t.Fatalf("stuck_signal findings = %d, want 1", stuck)
	}
}

func TestFindMismatchesExpectedValues(t *testing.T) {
	dump := "$var wire 1 ! done $end\n#0\n0!\n#10\n1!\n"
	model, err := Parse(writeDump(t, dump))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if issues := FindMismatches(model, map[string]string{"done": "1"}); len(issues) != 0 {
		t.Fatalf("matching final value produced findings: %v", issues)
	}
	issues := FindMismatches(model, map[string]string{"done": "0"})
	if len(issues) != 1 || issues[0].Type != "value_mismatch" {
		t.Fatalf("issues = %v, want one value_mismatch", issues)
	}
	if issues[0].Expected != "0" || issues[0].Actual != "1" || issues[0].AtTime != 10 {
		t.Errorf("mismatch detail = %+v, want expected 0 actual 1 at t=10", issues[0])
	}
}

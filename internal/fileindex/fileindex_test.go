// File path: internal/fileindex/fileindex_test.go
package fileindex

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, contents := range files {
		full := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
			t.Fatalf("write file %s: %v", name, err)
		}
	}
}

func TestScanFiltersAndSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"counter.v":           "module counter; endmodule",
		"counter_tb.sv":       "module counter_tb; endmodule",
		"dump.vcd":            "$timescale 1ns $end",
		"sim.log":             "PASS",
		"notes.txt":           "warning: slow clock",
		"readme.md":           "not indexed",
		".git/objects/junk.v": "hidden, skipped",
		"rtl/alu.v":           "module alu; endmodule",
	})

	ix := New()
	rels, err := ix.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	sort.Strings(rels)
	want := []string{"counter.v", "counter_tb.sv", "dump.vcd", "notes.txt", filepath.Join("rtl", "alu.v"), "sim.log"}
	if !reflect.DeepEqual(rels, want) {
		t.Fatalf("Scan rels = %v, want %v", rels, want)
	}
	if got := len(ix.All()); got != 6 {
		t.Fatalf("All returned %d entries, want 6", got)
	}
}

func TestScanEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"readme.md": "nothing relevant"})

	ix := New()
	rels, err := ix.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(rels) != 0 {
		t.Fatalf("Scan rels = %v, want empty", rels)
	}
	if all := ix.All(); len(all) != 0 {
		t.Fatalf("All = %v, want empty", all)
	}
}

func TestRescanIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"fifo.v":   "module fifo; endmodule",
		"fifo.vcd": "#0",
	})

	ix := New()
	first, err := ix.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	second, err := ix.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	sort.Strings(first)
	sort.Strings(second)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rescan changed results: %v vs %v", first, second)
	}
}

func TestResolveExactFilenameWinsWithFullScore(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"uart_tx.v":  "module uart_tx; endmodule",
		"uart_rx.v":  "module uart_rx; endmodule",
		"uart_tb.sv": "module uart_tb; endmodule",
	})
	ix := New()
	if _, err := ix.Scan(context.Background(), dir); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	got := ix.Resolve("UART_TX.v")
	if len(got) == 0 {
		t.Fatal("Resolve returned no entries")
	}
	if got[0].Filename != "uart_tx.v" {
		t.Fatalf("Resolve top entry = %s, want uart_tx.v", got[0].Filename)
	}
	if score := scoreEntry(got[0], "uart_tx.v", nil); score != 100 {
		t.Fatalf("exact filename score = %d, want 100", score)
	}
}

func TestScoreEntry(t *testing.T) {
	entry := &Entry{Filename: "counter.v", Stem: "counter"}
	cases := []struct {
		name   string
		query  string
		tokens []string
		want   int
	}{
		{name: "exact filename", query: "counter.v", want: 100},
		{name: "exact stem", query: "counter", want: 90},
		{name: "token in stem", query: "count", tokens: []string{"count"}, want: 50},
		{name: "stem in token", query: "counters", tokens: []string{"counters"}, want: 30},
		// overlap: each of c,l,k appears? "clk" vs "counter": c yes, l no,
		// k no -> 40*1/7 = 5, below the keep threshold but still scored.
		{name: "character overlap", query: "clk", tokens: []string{"clk"}, want: 5},
	}
	for _, tc := range cases {
		if got := scoreEntry(entry, tc.query, tc.tokens); got != tc.want {
			t.Errorf("%s: scoreEntry = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestResolveDiscardsLowScores(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"alu.v": "module alu; endmodule"})
	ix := New()
	if _, err := ix.Scan(context.Background(), dir); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got := ix.Resolve("zzz"); len(got) != 0 {
		t.Fatalf("Resolve(zzz) = %d entries, want none", len(got))
	}
}

func TestResolveIgnoresStopwords(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"counter.v": "module counter; endmodule"})
	ix := New()
	if _, err := ix.Scan(context.Background(), dir); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := ix.Resolve("debug the counter module")
	if len(got) != 1 || got[0].Filename != "counter.v" {
		t.Fatalf("Resolve = %v, want counter.v", got)
	}
}

func TestLatestAndByType(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"old.vcd": "#0",
		"new.vcd": "#0",
		"top.v":   "module top; endmodule",
	})
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "old.vcd"), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	ix := New()
	if _, err := ix.Scan(context.Background(), dir); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	latest := ix.Latest(TypeWaveform)
	if latest == nil || latest.Filename != "new.vcd" {
		t.Fatalf("Latest(waveform) = %v, want new.vcd", latest)
	}
	if got := ix.Latest(TypeLog); got != nil {
		t.Fatalf("Latest(log) = %v, want nil", got)
	}
	if waves := ix.ByType(TypeWaveform); len(waves) != 2 {
		t.Fatalf("ByType(waveform) = %d entries, want 2", len(waves))
	}
}

// File path: internal/fileindex/fileindex.go
package fileindex

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/shahran-n/Bug-Buster/internal/common"
)

// Type labels the category of an indexed project file.
type Type string

const (
	TypeVerilog       Type = "verilog"
	TypeSystemVerilog Type = "systemverilog"
	TypeWaveform      Type = "waveform"
	TypeLog           Type = "log"
)

var supportedExtensions = map[string]Type{
	".v":   TypeVerilog,
	".sv":  TypeSystemVerilog,
	".vcd": TypeWaveform,
	".log": TypeLog,
	".txt": TypeLog,
}

// resolveStopwords are query tokens that carry no file-identifying signal.
var resolveStopwords = map[string]struct{}{
	"the": {}, "file": {}, "module": {}, "debug": {}, "check": {},
	"analyze": {}, "find": {}, "bugs": {}, "in": {}, "for": {},
	"latest": {}, "last": {},
}

// Entry describes one indexed file. Entries are immutable once built; a
// rescan replaces them wholesale.
type Entry struct {
	Path     string    `json:"path"`
	Filename string    `json:"filename"`
	Stem     string    `json:"stem"`
	Ext      string    `json:"ext"`
	Type     Type      `json:"type"`
	ModTime  time.Time `json:"mtime"`
	RelPath  string    `json:"rel"`
}

// Summary is the listing shape returned by All.
type Summary struct {
	Filename string `json:"filename"`
	Type     Type   `json:"type"`
	RelPath  string `json:"rel"`
}

// snapshot is one fully built index generation. Readers always see a
// complete snapshot; Scan builds a new one aside and swaps it in.
type snapshot struct {
	folder string
	stems  []string
	byStem map[string][]*Entry
	byName map[string]*Entry
}

func emptySnapshot() *snapshot {
	return &snapshot{
		byStem: make(map[string][]*Entry),
		byName: make(map[string]*Entry),
	}
}

// Index owns the lookup structures for a project folder.
type Index struct {
	mu   sync.RWMutex
	snap *snapshot
}

func New() *Index {
	return &Index{snap: emptySnapshot()}
}

// Scan walks the folder tree and rebuilds the index from scratch, skipping
// hidden directories. Files outside the recognized extension set are
// ignored. The new index replaces the previous one atomically once the walk
// completes. Returns the relative paths indexed.
func (ix *Index) Scan(ctx context.Context, folder string) ([]string, error) {
	logger := common.Logger()
	next := emptySnapshot()
	next.folder = folder
	var rels []string

	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != folder && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		fileType, ok := supportedExtensions[ext]
		if !ok {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			logger.Warn("fileindex: stat failed, skipping", "path", path, "error", infoErr)
			return nil
		}
		rel, relErr := filepath.Rel(folder, path)
		if relErr != nil {
			rel = d.Name()
		}
		entry := &Entry{
			Path:     path,
			Filename: d.Name(),
			Stem:     strings.ToLower(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))),
			Ext:      ext,
			Type:     fileType,
			ModTime:  info.ModTime(),
			RelPath:  rel,
		}
		if _, seen := next.byStem[entry.Stem]; !seen {
			next.stems = append(next.stems, entry.Stem)
		}
		next.byStem[entry.Stem] = append(next.byStem[entry.Stem], entry)
		next.byName[strings.ToLower(entry.Filename)] = entry
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan folder %s: %w", folder, err)
	}

	ix.mu.Lock()
	ix.snap = next
	ix.mu.Unlock()
	logger.Info("fileindex: scan complete", "folder", folder, "files", len(rels))
	return rels, nil
}

func (ix *Index) snapshot() *snapshot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.snap
}

// Folder returns the root of the most recent scan.
func (ix *Index) Folder() string {
	return ix.snapshot().folder
}

// All lists every indexed entry in stem insertion order.
func (ix *Index) All() []Summary {
	snap := ix.snapshot()
	var out []Summary
	for _, stem := range snap.stems {
		for _, e := range snap.byStem[stem] {
			out = append(out, Summary{Filename: e.Filename, Type: e.Type, RelPath: e.RelPath})
		}
	}
	return out
}

// Resolve fuzzy-matches free text against the index and returns entries in
// descending score order. Ties keep stem insertion order, so results are
// deterministic for a given scan.
func (ix *Index) Resolve(query string) []*Entry {
	snap := ix.snapshot()
	queryLower := strings.ToLower(strings.TrimSpace(query))
	var tokens []string
	for _, tok := range strings.Fields(queryLower) {
		if _, stop := resolveStopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	type scored struct {
		score int
		entry *Entry
	}
	var results []scored
	for _, stem := range snap.stems {
		for _, entry := range snap.byStem[stem] {
			score := scoreEntry(entry, queryLower, tokens)
			if score > 20 {
				results = append(results, scored{score: score, entry: entry})
			}
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	out := make([]*Entry, 0, len(results))
	for _, r := range results {
		out = append(out, r.entry)
	}
	return out
}

// scoreEntry blends exact, substring and character-overlap matching. The
// overlap term tests each token character independently for membership in
// the stem, without deduplication.
func scoreEntry(entry *Entry, queryLower string, tokens []string) int {
	if queryLower == strings.ToLower(entry.Filename) {
		return 100
	}
	if queryLower == entry.Stem {
		return 90
	}
	score := 0
	for _, token := range tokens {
		switch {
		case strings.Contains(entry.Stem, token):
			score += 50
		case strings.Contains(token, entry.Stem):
			score += 30
		default:
			common := 0
			for _, c := range token {
				if strings.ContainsRune(entry.Stem, c) {
					common++
				}
			}
			denom := utf8.RuneCountInString(token)
			if stemLen := utf8.RuneCountInString(entry.Stem); stemLen > denom {
				denom = stemLen
			}
			if denom > 0 {
				score += 40 * common / denom
			}
		}
	}
	return score
}

// Latest returns the most recently modified entry, optionally filtered by
// type. A zero-value Type matches everything.
func (ix *Index) Latest(fileType Type) *Entry {
	snap := ix.snapshot()
	var best *Entry
	for _, stem := range snap.stems {
		for _, e := range snap.byStem[stem] {
			if fileType != "" && e.Type != fileType {
				continue
			}
			if best == nil || e.ModTime.After(best.ModTime) {
				best = e
			}
		}
	}
	return best
}

// ByType returns all entries of the given type in insertion order.
func (ix *Index) ByType(fileType Type) []*Entry {
	snap := ix.snapshot()
	var out []*Entry
	for _, stem := range snap.stems {
		for _, e := range snap.byStem[stem] {
			if e.Type == fileType {
				out = append(out, e)
			}
		}
	}
	return out
}

// ByName looks up a single entry by its lower-cased full filename.
func (ix *Index) ByName(filename string) *Entry {
	return ix.snapshot().byName[strings.ToLower(filename)]
}

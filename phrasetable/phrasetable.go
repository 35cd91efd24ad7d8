// Package phrasetable loads phrase translation tables that map source
// phrases to scored target candidates. Tables come in two forms: the
// plain text "source ||| target ||| logprob" format and a compiled
// SQLite database produced by Compile.
package phrasetable

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/happyhackingspace/werger/decoder"
	"github.com/happyhackingspace/werger/internal/modelfile"
)

const sep = " ||| "

// Table holds phrase candidates in memory, best first per source
// phrase. It is immutable after loading and safe for concurrent
// readers.
type Table struct {
	entries map[string][]decoder.Phrase
}

// Load reads a text phrase table from path, keeping the k best
// translations per source phrase. k <= 0 keeps all. Gzip- and
// xz-compressed files are decompressed transparently.
func Load(path string, k int) (*Table, error) {
	f, err := modelfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phrase table: %w", err)
	}
	defer func() { _ = f.Close() }()

	start := time.Now()
	t, err := Read(f, k)
	if err != nil {
		return nil, fmt.Errorf("read phrase table %s: %w", path, err)
	}
	slog.Debug("Phrase table loaded",
		"path", path,
		"sources", t.Size(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return t, nil
}

// Read parses phrase table data: one "source ||| target ||| logprob"
// entry per line. Blank lines are skipped.
func Read(r io.Reader, k int) (*Table, error) {
	entries := make(map[string][]decoder.Phrase)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cols := strings.Split(line, sep)
		if len(cols) != 3 {
			return nil, fmt.Errorf("line %d: want 3 fields, got %d", n, len(cols))
		}
		logprob, err := strconv.ParseFloat(strings.TrimSpace(cols[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad log probability %q", n, cols[2])
		}
		src := strings.Join(strings.Fields(cols[0]), " ")
		entries[src] = append(entries[src], decoder.Phrase{
			Text:    strings.TrimSpace(cols[1]),
			Logprob: logprob,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for src, ps := range entries {
		sortPhrases(ps)
		if k > 0 && len(ps) > k {
			entries[src] = ps[:k]
		}
	}
	return &Table{entries: entries}, nil
}

// sortPhrases orders candidates best first; equal scores fall back to
// the target text so lookups are reproducible.
func sortPhrases(ps []decoder.Phrase) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Logprob != ps[j].Logprob {
			return ps[i].Logprob > ps[j].Logprob
		}
		return ps[i].Text < ps[j].Text
	})
}

// Size returns the number of distinct source phrases.
func (t *Table) Size() int { return len(t.entries) }

// Contains reports whether the table has translations for span.
func (t *Table) Contains(span []string) bool {
	_, ok := t.entries[strings.Join(span, " ")]
	return ok
}

// Lookup returns the candidate translations for span, best first.
func (t *Table) Lookup(span []string) []decoder.Phrase {
	return t.entries[strings.Join(span, " ")]
}

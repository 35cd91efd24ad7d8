package ngram

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/happyhackingspace/werger/internal/modelfile"
)

// Load reads an ARPA model from path. Gzip- and xz-compressed files are
// decompressed transparently.
func Load(path string) (*Model, error) {
	f, err := modelfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open language model: %w", err)
	}
	defer func() { _ = f.Close() }()

	start := time.Now()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read language model %s: %w", path, err)
	}
	slog.Debug("Language model loaded",
		"path", path,
		"order", m.Order(),
		"ngrams", m.Size(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return m, nil
}

// Read parses ARPA data: tab-separated columns holding a log
// probability, the space-joined n-gram and an optional back-off weight.
// Headers, count declarations and blank lines are skipped.
func Read(r io.Reader) (*Model, error) {
	table := make(map[string]entry)
	order := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		cols := strings.Split(strings.TrimRight(sc.Text(), " \r"), "\t")
		if len(cols) < 2 || cols[0] == "ngram" {
			continue
		}
		logprob, err := strconv.ParseFloat(cols[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad log probability %q", n, cols[0])
		}
		words := strings.Fields(cols[1])
		if len(words) == 0 {
			return nil, fmt.Errorf("line %d: empty n-gram", n)
		}
		e := entry{logprob: logprob}
		if len(cols) > 2 && cols[2] != "" {
			if e.backoff, err = strconv.ParseFloat(cols[2], 64); err != nil {
				return nil, fmt.Errorf("line %d: bad back-off weight %q", n, cols[2])
			}
		}
		table[strings.Join(words, " ")] = e
		if len(words) > order {
			order = len(words)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("no n-gram entries")
	}

	m := &Model{table: table, order: order, unk: unkLogprob}
	if e, ok := table["<unk>"]; ok {
		m.unk = e.logprob
	}
	return m, nil
}

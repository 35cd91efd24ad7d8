// Package werger translates tokenized sentences using a phrase table,
// an n-gram language model and a stack decoder with limited reordering.
//
//	tr, _ := werger.Load("tm.txt", "lm.arpa", nil)
//	defer tr.Close()
//	res, _ := tr.Translate([]string{"honni", "soit", "qui", "mal", "y", "pense"})
//	fmt.Println(res.Text())
package werger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/happyhackingspace/werger/decoder"
	"github.com/happyhackingspace/werger/ngram"
	"github.com/happyhackingspace/werger/phrasetable"
)

// Config controls decoding.
type Config struct {
	BeamSize        int // hypotheses expanded per stack; 0 means 1
	MaxTranslations int // phrase candidates kept per source span; 0 means all
	Jobs            int // concurrent sentences in TranslateAll; 0 means GOMAXPROCS
}

// Translator decodes source sentences against a loaded model pair. It
// is safe for concurrent use.
type Translator struct {
	tm  decoder.PhraseTable
	lm  *ngram.Model
	cfg Config
}

// Load reads the phrase table and the language model from disk. Phrase
// tables ending in .db, .sqlite or .sqlite3 are opened as compiled
// tables; anything else is parsed as text. A nil config uses defaults.
func Load(tmPath, lmPath string, config *Config) (*Translator, error) {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}

	tm, err := openTable(tmPath, cfg.MaxTranslations)
	if err != nil {
		return nil, fmt.Errorf("werger: %w", err)
	}
	lm, err := ngram.Load(lmPath)
	if err != nil {
		if c, ok := tm.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("werger: %w", err)
	}
	return &Translator{tm: tm, lm: lm, cfg: cfg}, nil
}

func openTable(path string, k int) (decoder.PhraseTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return phrasetable.OpenDB(path, k)
	default:
		return phrasetable.Load(path, k)
	}
}

// ModelDir returns the directory where downloaded model files are
// cached.
func ModelDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "werger")
}

// Close releases the phrase table when it is backed by a database.
func (t *Translator) Close() error {
	if c, ok := t.tm.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Translate decodes one tokenized sentence. Words the phrase table does
// not know are passed through untranslated.
func (t *Translator) Translate(src []string) (*decoder.Result, error) {
	tm := phrasetable.NewFallback(t.tm, [][]string{src})
	res, err := decoder.New(tm, t.lm, t.cfg.BeamSize).Decode(src)
	if err != nil {
		return nil, fmt.Errorf("werger: %w", err)
	}
	return res, nil
}

// TranslateAll decodes sentences concurrently, preserving order. The
// unknown-word fallback is shared across the batch, so a word unknown
// in one sentence translates identically in every other. Failed
// sentences leave a nil slot and their errors are joined.
func (t *Translator) TranslateAll(sentences [][]string) ([]*decoder.Result, error) {
	tm := phrasetable.NewFallback(t.tm, sentences)
	if n := tm.Unknown(); n > 0 {
		slog.Debug("Unknown words covered by identity translations", "count", n)
	}
	d := decoder.New(tm, t.lm, t.cfg.BeamSize)

	jobs := t.cfg.Jobs
	if jobs < 1 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*decoder.Result, len(sentences))
	errs := make([]error, len(sentences))
	indices := make(chan int)
	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				res, err := d.Decode(sentences[i])
				if err != nil {
					errs[i] = fmt.Errorf("sentence %d: %w", i+1, err)
					continue
				}
				results[i] = res
			}
		}()
	}
	for i := range sentences {
		indices <- i
	}
	close(indices)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return results, fmt.Errorf("werger: %w", err)
	}
	return results, nil
}

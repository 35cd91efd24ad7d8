package werger

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/happyhackingspace/werger/decoder"
)

// EvalConfig holds configuration for evaluation.
type EvalConfig struct {
	MaxOrder int // highest n-gram order scored; 0 means 4
}

// EvalResult holds corpus-level translation quality metrics.
type EvalResult struct {
	BLEU           float64
	Precisions     []float64 // modified n-gram precision per order
	BrevityPenalty float64
	HypothesisLen  int
	ReferenceLen   int
	Sentences      int
	Failed         int
	AvgLogprob     float64 // mean decoder score of decoded sentences
}

// Evaluate decodes sources and scores them against one reference
// translation each using corpus BLEU. Sentences that fail to decode are
// counted and excluded from the score.
func (t *Translator) Evaluate(sources, refs [][]string, config *EvalConfig) (*EvalResult, error) {
	if len(sources) != len(refs) {
		return nil, fmt.Errorf("werger: %d sources but %d references", len(sources), len(refs))
	}
	results, err := t.TranslateAll(sources)
	if err != nil {
		slog.Warn("Sentences failed during evaluation", "error", err)
	}
	return Score(results, refs, config)
}

// Score computes corpus BLEU for already decoded results against one
// reference each. Nil results count as failed and are excluded.
func Score(results []*decoder.Result, refs [][]string, config *EvalConfig) (*EvalResult, error) {
	if len(results) != len(refs) {
		return nil, fmt.Errorf("werger: %d results but %d references", len(results), len(refs))
	}
	maxOrder := 4
	if config != nil && config.MaxOrder > 0 {
		maxOrder = config.MaxOrder
	}

	stats := newBleuStats(maxOrder)
	res := &EvalResult{Sentences: len(results)}
	var logprob float64
	decoded := 0
	for i, r := range results {
		if r == nil {
			res.Failed++
			continue
		}
		decoded++
		logprob += r.Logprob
		stats.add(strings.Fields(r.Text()), refs[i])
	}
	if decoded > 0 {
		res.AvgLogprob = logprob / float64(decoded)
	}
	res.BLEU, res.Precisions, res.BrevityPenalty = stats.score()
	res.HypothesisLen = stats.hypLen
	res.ReferenceLen = stats.refLen
	return res, nil
}

// Package decoder implements stack-based beam search for phrase-based
// statistical machine translation.
//
// A source sentence is decoded by repeatedly extending partial
// translations (hypotheses) with phrase translations of untranslated
// spans. Hypotheses accounting for the same number of source words
// share a stack; within a stack, hypotheses reaching an identical State
// are recombined so only the best survives, and only the top BeamSize
// hypotheses are expanded further. One source span at a time may be
// skipped and translated out of order (the gap mechanism).
package decoder

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ErrNoTranslation is returned when no hypothesis reaches full coverage.
// With the phrase table's unknown-word fallback in place this indicates
// broken model data rather than a hard sentence.
var ErrNoTranslation = errors.New("no full-coverage translation")

// DefaultBeamSize bounds per-stack expansion when no size is configured.
const DefaultBeamSize = 1

// Decoder runs beam search against a phrase table and a language model.
// It keeps no state between calls and is safe for concurrent use as
// long as the table and the model are.
type Decoder struct {
	tm   PhraseTable
	lm   LanguageModel
	beam int
}

// New creates a Decoder. Beam sizes below one fall back to
// DefaultBeamSize.
func New(tm PhraseTable, lm LanguageModel, beamSize int) *Decoder {
	if beamSize < 1 {
		beamSize = DefaultBeamSize
	}
	return &Decoder{tm: tm, lm: lm, beam: beamSize}
}

// Result is a finished translation with its score decomposition.
type Result struct {
	Phrases []Phrase // winning phrase sequence in emission order
	Logprob float64  // cumulative log probability of the winner
	TM      float64  // translation model share of Logprob
	LM      float64  // language model share of Logprob
}

// Text returns the translation as space-separated target text.
func (r *Result) Text() string {
	texts := make([]string, len(r.Phrases))
	for i, p := range r.Phrases {
		texts[i] = p.Text
	}
	return strings.Join(texts, " ")
}

// Decode translates one tokenized source sentence and returns the best
// hypothesis within the beam. An empty sentence decodes to an empty
// result with log probability zero. ErrNoTranslation is reported when
// the final stack stays empty.
func (d *Decoder) Decode(src []string) (*Result, error) {
	n := len(src)
	stacks := make([]map[State]*Hypothesis, n+1)
	for i := range stacks {
		stacks[i] = make(map[State]*Hypothesis)
	}

	root := State{Context: d.lm.Begin()}
	stacks[0][root] = &Hypothesis{State: root}

	// The final stack is only read, never expanded: every state in it
	// has full coverage and no open gap.
	for i := range n {
		for _, h := range topB(stacks[i], d.beam) {
			for _, e := range d.extend(h.State, src) {
				cand := &Hypothesis{
					Logprob: h.Logprob + e.logprob,
					Prev:    h,
					Phrase:  e.phrase,
					State:   e.state,
				}
				dst := stacks[e.state.translated()]
				if cur, ok := dst[e.state]; !ok || cur.Logprob < cand.Logprob {
					dst[e.state] = cand
				}
			}
		}
	}

	winner := best(stacks[n])
	if winner == nil {
		return nil, fmt.Errorf("%w for %d-word sentence", ErrNoTranslation, n)
	}
	return backtrack(winner), nil
}

// topB returns at most b hypotheses from a stack, best first. Ties
// break on state order so decoding stays deterministic regardless of
// map iteration order.
func topB(stack map[State]*Hypothesis, b int) []*Hypothesis {
	hyps := make([]*Hypothesis, 0, len(stack))
	for _, h := range stack {
		hyps = append(hyps, h)
	}
	sort.Slice(hyps, func(i, j int) bool {
		if hyps[i].Logprob != hyps[j].Logprob {
			return hyps[i].Logprob > hyps[j].Logprob
		}
		return hyps[i].State.less(hyps[j].State)
	})
	if len(hyps) > b {
		hyps = hyps[:b]
	}
	return hyps
}

// best returns the highest scoring hypothesis in a stack, nil when the
// stack is empty.
func best(stack map[State]*Hypothesis) *Hypothesis {
	var w *Hypothesis
	for _, h := range stack {
		if w == nil || h.Logprob > w.Logprob ||
			(h.Logprob == w.Logprob && h.State.less(w.State)) {
			w = h
		}
	}
	return w
}

// backtrack walks the predecessor chain iteratively and assembles the
// Result in emission order.
func backtrack(winner *Hypothesis) *Result {
	var phrases []Phrase
	var tm float64
	for h := winner; h.Prev != nil; h = h.Prev {
		phrases = append(phrases, h.Phrase)
		tm += h.Phrase.Logprob
	}
	slices.Reverse(phrases)
	return &Result{
		Phrases: phrases,
		Logprob: winner.Logprob,
		TM:      tm,
		LM:      winner.Logprob - tm,
	}
}

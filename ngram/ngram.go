// Package ngram implements an ARPA-format back-off n-gram language
// model for incremental left-to-right scoring.
package ngram

import "strings"

// unkLogprob stands in for <unk> when the model file carries no entry
// for it. ARPA files use -99 for events with no probability mass.
const unkLogprob = -99

// entry is one n-gram's log probability and back-off weight.
type entry struct {
	logprob float64
	backoff float64
}

// Model is a back-off n-gram language model. It is immutable after
// loading and safe for concurrent readers. Contexts are space-joined
// word histories of at most order-1 words; callers treat them as opaque
// values.
type Model struct {
	table map[string]entry
	order int
	unk   float64
}

// Order returns the model's n-gram order.
func (m *Model) Order() int { return m.order }

// Size returns the number of n-gram entries.
func (m *Model) Size() int { return len(m.table) }

// Begin returns the sentence-start context.
func (m *Model) Begin() string { return "<s>" }

// Score extends ctx with word. The longest known n-gram ending in word
// wins; every failed length adds the back-off weight of the history it
// shortens. A word with no unigram entry scores as <unk> and clears the
// context. The returned context keeps at most order-1 trailing words of
// the matched n-gram.
func (m *Model) Score(ctx, word string) (string, float64) {
	words := append(strings.Fields(ctx), word)
	var backoff float64
	for len(words) > 0 {
		if e, ok := m.table[strings.Join(words, " ")]; ok {
			keep := m.order - 1
			if keep > len(words) {
				keep = len(words)
			}
			return strings.Join(words[len(words)-keep:], " "), backoff + e.logprob
		}
		if len(words) > 1 {
			if e, ok := m.table[strings.Join(words[:len(words)-1], " ")]; ok {
				backoff += e.backoff
			}
		}
		words = words[1:]
	}
	return "", backoff + m.unk
}

// End returns the log probability of closing the sentence from ctx.
func (m *Model) End(ctx string) float64 {
	_, logprob := m.Score(ctx, "</s>")
	return logprob
}

package decoder

// Phrase is a candidate translation of a contiguous source span,
// carrying its translation model log probability.
type Phrase struct {
	Text    string
	Logprob float64
}

// PhraseTable supplies candidate translations for contiguous source
// spans. Implementations must be safe for concurrent readers and must
// return candidates best first in a deterministic order.
type PhraseTable interface {
	Contains(span []string) bool
	Lookup(span []string) []Phrase
}

// LanguageModel scores target words incrementally. A context is an
// opaque string owned by the model; the decoder only threads it forward
// and compares it for equality. Implementations must be safe for
// concurrent readers.
type LanguageModel interface {
	// Begin returns the context at the start of a sentence.
	Begin() string
	// Score extends ctx with word and returns the new context together
	// with the word's log probability.
	Score(ctx, word string) (string, float64)
	// End returns the log probability of ending the sentence in ctx.
	End(ctx string) float64
}

// Gap is a half-open source span [Start, End) that was skipped and
// still awaits translation. The zero value means no gap. At most one
// gap is open per state, and it must be closed before another may open.
type Gap struct {
	Start int
	End   int
}

// IsOpen reports whether the gap marks a pending span.
func (g Gap) IsOpen() bool { return g.End > g.Start }

func (g Gap) width() int { return g.End - g.Start }

// State identifies a point in the search space: the contiguous coverage
// frontier, at most one pending gap, and the language model context
// needed to score the next target word. States compare by value and key
// the recombination maps.
type State struct {
	Covered int // index of the first source word not yet considered
	Gap     Gap
	Context string
}

// translated is the number of source words actually accounted for: the
// frontier minus any pending gap. It selects the stack a state lives in,
// so gapped and gapless states with equal progress compete directly.
func (s State) translated() int {
	return s.Covered - s.Gap.width()
}

// less orders states for deterministic tie breaking.
func (s State) less(o State) bool {
	if s.Covered != o.Covered {
		return s.Covered < o.Covered
	}
	if s.Gap != o.Gap {
		if s.Gap.Start != o.Gap.Start {
			return s.Gap.Start < o.Gap.Start
		}
		return s.Gap.End < o.Gap.End
	}
	return s.Context < o.Context
}

// Hypothesis is a node in the search graph: the state reached, the
// phrase that got there, the cumulative log probability, and the
// predecessor being extended. Chains are acyclic; the root hypothesis
// has a nil Prev.
type Hypothesis struct {
	Logprob float64
	Prev    *Hypothesis
	Phrase  Phrase
	State   State
}

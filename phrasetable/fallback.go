package phrasetable

import "github.com/happyhackingspace/werger/decoder"

// Fallback wraps a table with identity translations for the unknown
// words of a fixed input, so every sentence in it stays decodable. The
// unknown-word set is a snapshot taken at construction; the wrapper is
// immutable and safe for concurrent readers.
type Fallback struct {
	base decoder.PhraseTable
	oov  map[string][]decoder.Phrase
}

// NewFallback scans sentences for single words the base table cannot
// translate and covers each with an identity phrase at log probability
// zero.
func NewFallback(base decoder.PhraseTable, sentences [][]string) *Fallback {
	oov := make(map[string][]decoder.Phrase)
	for _, sentence := range sentences {
		for _, word := range sentence {
			if _, ok := oov[word]; ok {
				continue
			}
			if !base.Contains([]string{word}) {
				oov[word] = []decoder.Phrase{{Text: word, Logprob: 0}}
			}
		}
	}
	return &Fallback{base: base, oov: oov}
}

// Unknown returns the number of words covered by identity translations.
func (f *Fallback) Unknown() int { return len(f.oov) }

// Contains reports whether the base table or the identity set covers
// span.
func (f *Fallback) Contains(span []string) bool {
	if f.base.Contains(span) {
		return true
	}
	if len(span) != 1 {
		return false
	}
	_, ok := f.oov[span[0]]
	return ok
}

// Lookup returns the base table's candidates for span, or the identity
// phrase for an unknown word.
func (f *Fallback) Lookup(span []string) []decoder.Phrase {
	if ps := f.base.Lookup(span); len(ps) > 0 {
		return ps
	}
	if len(span) == 1 {
		return f.oov[span[0]]
	}
	return nil
}

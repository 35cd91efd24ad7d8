package decoder

import "strings"

// extension is one legal move out of a state: the state reached, the
// phrase labeling the edge, and the phrase's incremental log
// probability (translation model plus language model).
type extension struct {
	state   State
	logprob float64
	phrase  Phrase
}

// extend enumerates every legal extension of state s against source
// sentence src.
//
// With no gap open, each translatable span starting at the frontier is
// translated in place, advancing the frontier; additionally, for each
// such span, every translatable span beyond it may be translated early,
// recording the frontier span as the open gap. With a gap open the only
// move is translating the gap span, which closes the gap and leaves the
// frontier where it was. End-of-sentence scoring applies exactly when
// the move completes coverage with no gap left open.
func (d *Decoder) extend(s State, src []string) []extension {
	n := len(src)
	var out []extension

	if s.Gap.IsOpen() {
		eos := s.Covered == n
		for _, p := range d.tm.Lookup(src[s.Gap.Start:s.Gap.End]) {
			ctx, logprob := d.score(s.Context, p, eos)
			out = append(out, extension{
				state:   State{Covered: s.Covered, Context: ctx},
				logprob: logprob,
				phrase:  p,
			})
		}
		return out
	}

	for j := s.Covered + 1; j <= n; j++ {
		if !d.tm.Contains(src[s.Covered:j]) {
			continue
		}
		for _, p := range d.tm.Lookup(src[s.Covered:j]) {
			ctx, logprob := d.score(s.Context, p, j == n)
			out = append(out, extension{
				state:   State{Covered: j, Context: ctx},
				logprob: logprob,
				phrase:  p,
			})
		}
		// Skipping ahead is offered only past a span that could itself
		// be translated: the skipped region must have table entries or
		// the gap could never be filled.
		for k := j + 1; k <= n; k++ {
			if !d.tm.Contains(src[j:k]) {
				continue
			}
			for _, p := range d.tm.Lookup(src[j:k]) {
				ctx, logprob := d.score(s.Context, p, false)
				out = append(out, extension{
					state:   State{Covered: k, Gap: Gap{Start: s.Covered, End: j}, Context: ctx},
					logprob: logprob,
					phrase:  p,
				})
			}
		}
	}
	return out
}

// score applies one phrase: its translation model log probability, each
// target word scored through the language model in order, and the end
// of sentence score when eos is set. It returns the advanced context
// and the total increment.
func (d *Decoder) score(ctx string, p Phrase, eos bool) (string, float64) {
	logprob := p.Logprob
	for _, word := range strings.Fields(p.Text) {
		var wp float64
		ctx, wp = d.lm.Score(ctx, word)
		logprob += wp
	}
	if eos {
		logprob += d.lm.End(ctx)
	}
	return ctx, logprob
}

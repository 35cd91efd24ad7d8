package decoder

import (
	"reflect"
	"testing"
)

func TestExtendGapless(t *testing.T) {
	tm := tmMap{
		"a":   {{Text: "A", Logprob: -1}},
		"a b": {{Text: "AB", Logprob: -2}},
		"b":   {{Text: "B", Logprob: -3}},
		"c":   {{Text: "C", Logprob: -4}},
	}
	d := New(tm, uniformLM{word: -1, end: -10}, 1)

	got := d.extend(State{Context: "<s>"}, []string{"a", "b", "c"})
	want := []extension{
		{state: State{Covered: 1, Context: "A"}, logprob: -2, phrase: Phrase{Text: "A", Logprob: -1}},
		{state: State{Covered: 2, Gap: Gap{Start: 0, End: 1}, Context: "B"}, logprob: -4, phrase: Phrase{Text: "B", Logprob: -3}},
		{state: State{Covered: 2, Context: "AB"}, logprob: -3, phrase: Phrase{Text: "AB", Logprob: -2}},
		{state: State{Covered: 3, Gap: Gap{Start: 0, End: 2}, Context: "C"}, logprob: -5, phrase: Phrase{Text: "C", Logprob: -4}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extend = %+v, want %+v", got, want)
	}
}

func TestExtendGapOpen(t *testing.T) {
	tm := tmMap{
		"a": {{Text: "A", Logprob: -1}},
		"b": {{Text: "B", Logprob: -3}},
	}
	d := New(tm, uniformLM{word: -1, end: -10}, 1)
	s := State{Covered: 2, Gap: Gap{Start: 0, End: 1}, Context: "B"}

	// Mid-sentence fill: the frontier stays put, no end scoring.
	got := d.extend(s, []string{"a", "b", "c"})
	want := []extension{
		{state: State{Covered: 2, Context: "A"}, logprob: -2, phrase: Phrase{Text: "A", Logprob: -1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extend = %+v, want %+v", got, want)
	}

	// A fill that completes coverage scores the sentence end.
	got = d.extend(s, []string{"a", "b"})
	want = []extension{
		{state: State{Covered: 2, Context: "A"}, logprob: -12, phrase: Phrase{Text: "A", Logprob: -1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extend = %+v, want %+v", got, want)
	}
}

func TestExtendSkipNeedsTranslatableSpan(t *testing.T) {
	// "b" alone is translatable, but skipping "a" is not offered
	// because no table entry could ever fill that gap.
	tm := tmMap{"b": {{Text: "B", Logprob: -1}}}
	d := New(tm, uniformLM{word: -1, end: -1}, 1)

	if got := d.extend(State{Context: "<s>"}, []string{"a", "b"}); len(got) != 0 {
		t.Errorf("extend = %+v, want none", got)
	}
}

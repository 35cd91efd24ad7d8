package phrasetable

import (
	"reflect"
	"strings"
	"testing"

	"github.com/happyhackingspace/werger/decoder"
)

func TestFallback(t *testing.T) {
	base, err := Read(strings.NewReader("le ||| the ||| -0.1\n"), 0)
	if err != nil {
		t.Fatal(err)
	}
	fb := NewFallback(base, [][]string{{"le", "chien"}, {"chien", "noir"}})

	if fb.Unknown() != 2 {
		t.Errorf("Unknown = %d, want 2", fb.Unknown())
	}

	// Base entries pass through untouched.
	got := fb.Lookup([]string{"le"})
	want := []decoder.Phrase{{Text: "the", Logprob: -0.1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup(le) = %v, want %v", got, want)
	}

	// Unknown words from the snapshot translate to themselves.
	if !fb.Contains([]string{"noir"}) {
		t.Error("expected noir")
	}
	got = fb.Lookup([]string{"noir"})
	want = []decoder.Phrase{{Text: "noir", Logprob: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup(noir) = %v, want %v", got, want)
	}

	// Multi-word spans never fall back.
	if fb.Contains([]string{"chien", "noir"}) {
		t.Error("unexpected chien noir")
	}

	// Words outside the snapshot stay unknown.
	if fb.Contains([]string{"chat"}) {
		t.Error("unexpected chat")
	}
}
